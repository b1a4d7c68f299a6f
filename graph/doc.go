/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package graph extends in-memory graphs by joining entities through their keys.

A graph is a Map whose values are instances, nested maps, arrays of maps or
caller data. Each Aggregate call reads the target entity once per location
the From path reaches and writes what it finds next to the join source:

	agg := graph.New(reg, storage)
	g, err := agg.Aggregate(ctx, graph.Map{"fruit": strawberry}, graph.Spec{
		To:      "shop/Supplier",
		From:    graph.Keys("fruit"),
		KeyVal:  "by-fruit",
		SetName: "suppliers",
	})

Paths have three shapes. An empty path seeds the root from the key argument
alone. A one-step path joins from a root field and writes at the root.
Longer paths descend map keys, with Each fanning out over arrays, and write
into the map holding the last key:

	graph.Path{graph.Key("fruits"), graph.Each, graph.Key("Fruit")}

A unique key writes the instance (or nil) under InstanceName. A non-unique
key writes an Array of {InstanceName: instance} maps under SetName, combined
with any existing set according to Merge.
*/
package graph
