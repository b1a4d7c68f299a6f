/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/entitygraph/registry"
)

// Gateway is the persistence binding of one entity.
type Gateway interface {
	// ReadByKey returns the instances matching key. A nil slice means no
	// match; a unique key yields at most one instance.
	ReadByKey(ctx context.Context, keyName string, key *registry.KeyValue) ([]*registry.Instance, error)

	// Write stores inst and returns the number of affected instances.
	Write(ctx context.Context, inst *registry.Instance) (int, error)

	// Delete removes inst and returns the number of affected instances.
	Delete(ctx context.Context, inst *registry.Instance) (int, error)
}

// Locator returns the gateway bound to an entity.
type Locator interface {
	Gateway(entity string) Gateway
}

// Noop is the gateway of entities without a physical store.
type Noop struct{}

var _ Gateway = Noop{}

func (Noop) ReadByKey(context.Context, string, *registry.KeyValue) ([]*registry.Instance, error) {
	return nil, nil
}

func (Noop) Write(context.Context, *registry.Instance) (int, error) { return 0, nil }

func (Noop) Delete(context.Context, *registry.Instance) (int, error) { return 0, nil }
