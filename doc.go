/*
Package entitygraph declares typed entities, resolves their keys and joins
them into in-memory graphs read through pluggable persistence gateways.

The library is organized as:
  - registry: scalar, enum and entity definitions, key resolution
  - datastore: the persistence gateway contract, with mock and DynamoDB (ddb) gateways
  - graph: the aggregator extending graphs one join at a time
  - schema: YAML schema documents applied to a registry

Basic Usage:

	reg := registry.New()
	if err := schema.LoadFile(reg, "shop.yaml"); err != nil {
	    return err
	}

	// Bind entities to their gateways
	storage := entitygraph.NewStorage()
	fruitStore, _ := ddb.New(reg, fruit, client, binding)
	storage.Register("shop/Fruit", fruitStore)

	// Join suppliers onto a fruit
	agg := graph.New(reg, storage)
	g, err := agg.Aggregate(ctx, graph.Map{"fruit": apple}, graph.Spec{
	    To:      "shop/Supplier",
	    From:    graph.Keys("fruit"),
	    KeyVal:  "by-fruit",
	    SetName: "suppliers",
	})
*/
package entitygraph
