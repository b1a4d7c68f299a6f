/*
Package ddb provides a DynamoDB implementation of the datastore.Gateway interface.

The Gateway supports:
  - Single-table design patterns
  - Macro-based key expansion (e.g., "FRUIT#{Name}")
  - Global Secondary Index (GSI) reads for secondary keys
  - Paged reads with retry of throttled queries
  - Automatic EntityType injection for polymorphic storage

Bindings:
Each entity key is bound to the table or a GSI. Attribute templates use the
key's field names as macros:

	binding := ddb.TableBinding("shop", "FRUIT#{Name}", "FRUIT").
	    WithIndex("by-status", "GSI1", "STATUS#{Status}", "FRUIT")

	gw, err := ddb.New(reg, fruit, client, binding,
	    ddb.WithPageSize(25),
	    ddb.WithMaxRetries(3),
	)

Connection settings are read from the environment (optionally from a .env
file) by LoadConfig: AWS_ACCESS_KEY, AWS_SECRET_KEY, AWS_REGION and
AWS_DDB_TABLE.
*/
package ddb
