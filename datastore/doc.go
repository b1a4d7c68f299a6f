/*
Package datastore defines the persistence contract consumed by EntityGraph.

Every entity is bound to one Gateway:

	type Gateway interface {
	    ReadByKey(ctx context.Context, keyName string, key *registry.KeyValue) ([]*registry.Instance, error)
	    Write(ctx context.Context, inst *registry.Instance) (int, error)
	    Delete(ctx context.Context, inst *registry.Instance) (int, error)
	}

A read miss is a nil slice, not an error. Entities without a physical store
use Noop, which returns nil and 0 uniformly and never fails.

Implementations:
  - ddb: DynamoDB gateway with macro-templated key bindings
  - mock: In-memory gateway for testing

Gateways are looked up through a Locator; entitygraph.Storage is the
standard implementation.
*/
package datastore
