/*
Package registry holds the type catalog and key resolver for EntityGraph.

The registry is an explicit object: create one per schema and pass it to the
components that need it.

	reg := registry.New(registry.WithLogger(logger))
	reg.DefineScalar("shop/Name", "")
	_ = reg.DefineEnum("shop/Status", []registry.EnumTag{
	    {Tag: "active", Value: 1},
	    {Tag: "inactive", Value: 0},
	}, "active")
	_ = reg.DefineEntity(&registry.EntityDef{
	    Name: "shop/Fruit",
	    Fields: []registry.FieldDef{
	        {Name: "Name", Type: registry.TypeRef("shop/Name")},
	        {Name: "Status", Type: registry.TypeRef("shop/Status")},
	    },
	    Primary: []string{"Name"},
	    Keys: map[string]*registry.KeyDef{
	        "by-status": {Fields: []registry.KeyField{{Field: "Status"}}},
	    },
	})

Keys:
Every entity has a unique "primary" key derived from its primary fields;
further keys may reference fields of other entities:

	{Entity: "shop/Fruit", Field: "Name", As: "Fruit"}

The typed prototype of a key is computed on first use and memoized on the
KeyDef. A key referencing an entity that is not registered yet fails with
ErrUnresolvableKeyField and is retried on the next call.

	fruit, _ := reg.FindEntity("shop/Fruit")
	kv, _ := reg.MakeKey(fruit, registry.PrimaryKey, map[string]any{"Name": "Apple"})

The registry is safe for concurrent use.
*/
package registry
