/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"github.com/suparena/entitygraph/registry"
)

// KeyBinding maps one entity key onto a table or index
type KeyBinding struct {
	// IndexName is the GSI queried for the key; empty queries the table itself
	IndexName string
	// Attributes maps each key attribute of the table or index to a macro
	// template over the key's field names (e.g. "PK": "FRUIT#{Name}")
	Attributes map[string]string
}

// Binding holds the physical layout of one entity
type Binding struct {
	TableName string
	// Keys maps entity key names to their bindings. The registry.PrimaryKey
	// binding addresses items for writes and deletes.
	Keys map[string]KeyBinding
}

// Primary returns the binding of the primary key.
func (b Binding) Primary() (KeyBinding, bool) {
	kb, ok := b.Keys[registry.PrimaryKey]
	return kb, ok
}

// TableBinding binds the primary key to the table keys PK and SK.
func TableBinding(table, pk, sk string) Binding {
	return Binding{
		TableName: table,
		Keys: map[string]KeyBinding{
			registry.PrimaryKey: {Attributes: map[string]string{"PK": pk, "SK": sk}},
		},
	}
}

// WithIndex binds key to a GSI using the default attribute names of
// DefaultIndexes, falling back to <index>PK and <index>SK.
func (b Binding) WithIndex(key, index, pk, sk string) Binding {
	keys := make(map[string]KeyBinding, len(b.Keys)+1)
	for k, v := range b.Keys {
		keys[k] = v
	}
	names, ok := DefaultIndexes[index]
	if !ok {
		names = IndexAttributes{PartitionKeyName: index + "PK", SortKeyName: index + "SK"}
	}
	attrs := map[string]string{names.PartitionKeyName: pk}
	if sk != "" {
		attrs[names.SortKeyName] = sk
	}
	keys[key] = KeyBinding{IndexName: index, Attributes: attrs}
	b.Keys = keys
	return b
}

// IndexAttributes names the key attributes of a GSI
type IndexAttributes struct {
	// PartitionKeyName is the partition key attribute of the GSI (e.g., "GSI1PK")
	PartitionKeyName string
	// SortKeyName is the sort key attribute of the GSI (e.g., "GSI1SK")
	SortKeyName string
}

// DefaultIndexes holds the attribute names of the conventional GSIs
var DefaultIndexes = map[string]IndexAttributes{
	"GSI1": {PartitionKeyName: "GSI1PK", SortKeyName: "GSI1SK"},
	"GSI2": {PartitionKeyName: "GSI2PK", SortKeyName: "GSI2SK"},
}
