/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory datastore.Gateway for testing
package mock

import (
	"context"
	"sync"

	"github.com/suparena/entitygraph/datastore"
	"github.com/suparena/entitygraph/registry"
)

// ReadFunc replaces the default key matching of a Gateway.
type ReadFunc func(ctx context.Context, keyName string, key *registry.KeyValue) ([]*registry.Instance, error)

// Gateway is an in-memory datastore.Gateway. Rows keep insertion order,
// which is the order reads return them in.
type Gateway struct {
	mu          sync.RWMutex
	rows        []*registry.Instance
	readFunc    ReadFunc
	readError   error
	writeError  error
	deleteError error
	reads       []*registry.KeyValue
}

var _ datastore.Gateway = (*Gateway)(nil)

// New creates an empty mock Gateway
func New() *Gateway {
	return &Gateway{}
}

// WithRows stores the given instances as if written
func (m *Gateway) WithRows(rows ...*registry.Instance) *Gateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.upsert(r.Clone())
	}
	return m
}

// WithReadFunc sets a custom read function for testing
func (m *Gateway) WithReadFunc(f ReadFunc) *Gateway {
	m.readFunc = f
	return m
}

// WithReadError makes ReadByKey operations return an error
func (m *Gateway) WithReadError(err error) *Gateway {
	m.readError = err
	return m
}

// WithWriteError makes Write operations return an error
func (m *Gateway) WithWriteError(err error) *Gateway {
	m.writeError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *Gateway) WithDeleteError(err error) *Gateway {
	m.deleteError = err
	return m
}

// ReadByKey returns copies of every row whose fields equal the key's values.
func (m *Gateway) ReadByKey(ctx context.Context, keyName string, key *registry.KeyValue) ([]*registry.Instance, error) {
	m.mu.Lock()
	m.reads = append(m.reads, key)
	m.mu.Unlock()

	if m.readError != nil {
		return nil, m.readError
	}
	if m.readFunc != nil {
		return m.readFunc(ctx, keyName, key)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []*registry.Instance
	for _, row := range m.rows {
		if !matches(row, key) {
			continue
		}
		inst := row.Clone()
		inst.Key = key.Key
		results = append(results, inst)
		if key.Unique() {
			break
		}
	}
	return results, nil
}

// Write inserts inst or replaces the row with the same primary key
func (m *Gateway) Write(ctx context.Context, inst *registry.Instance) (int, error) {
	if m.writeError != nil {
		return 0, m.writeError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsert(inst.Clone())
	return 1, nil
}

// Delete removes the row with the same primary key as inst
func (m *Gateway) Delete(ctx context.Context, inst *registry.Instance) (int, error) {
	if m.deleteError != nil {
		return 0, m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := inst.PrimaryKey()
	for i, row := range m.rows {
		if row.PrimaryKey() == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// Helper methods for testing

// Rows returns copies of the stored rows in order
func (m *Gateway) Rows() []*registry.Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*registry.Instance, 0, len(m.rows))
	for _, r := range m.rows {
		result = append(result, r.Clone())
	}
	return result
}

// Reads returns the key values ReadByKey was called with
func (m *Gateway) Reads() []*registry.KeyValue {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*registry.KeyValue(nil), m.reads...)
}

// Count returns the number of stored rows
func (m *Gateway) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// Clear removes all rows and recorded reads
func (m *Gateway) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = nil
	m.reads = nil
}

func (m *Gateway) upsert(inst *registry.Instance) {
	id := inst.PrimaryKey()
	for i, row := range m.rows {
		if row.PrimaryKey() == id {
			m.rows[i] = inst
			return
		}
	}
	m.rows = append(m.rows, inst)
}

func matches(row *registry.Instance, key *registry.KeyValue) bool {
	for name, want := range key.Values {
		if !registry.Equal(row.Values[name], want) {
			return false
		}
	}
	return true
}
