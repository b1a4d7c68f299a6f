/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitygraph

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/suparena/entitygraph/datastore"
	"github.com/suparena/entitygraph/errors"
)

// Storage binds entities to the gateways that persist them. It implements
// datastore.Locator; entities without a gateway read as empty.
type Storage struct {
	mu     sync.RWMutex
	stores map[string]datastore.Gateway
	log    *zap.Logger
}

var _ datastore.Locator = (*Storage)(nil)

// Option configures a Storage
type Option func(*Storage)

// WithLogger sets the logger used for binding changes
func WithLogger(l *zap.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStorage creates an empty Storage.
func NewStorage(opts ...Option) *Storage {
	s := &Storage{
		stores: make(map[string]datastore.Gateway),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register binds entity to gw.
func (s *Storage) Register(entity string, gw datastore.Gateway) error {
	if gw == nil {
		return errors.NewValidationError("gateway", "required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stores[entity]; exists {
		return errors.NewAlreadyExistsError("gateway", entity)
	}
	s.stores[entity] = gw
	s.log.Debug("gateway registered", zap.String("entity", entity))
	return nil
}

// Get returns the gateway bound to entity.
func (s *Storage) Get(entity string) (datastore.Gateway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gw, exists := s.stores[entity]
	if !exists {
		return nil, errors.NewNotFoundError("gateway", entity)
	}
	return gw, nil
}

// Gateway returns the gateway bound to entity, or datastore.Noop.
func (s *Storage) Gateway(entity string) datastore.Gateway {
	if gw, err := s.Get(entity); err == nil {
		return gw
	}
	return datastore.Noop{}
}

// Remove unbinds entity.
func (s *Storage) Remove(entity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stores[entity]; !exists {
		return errors.NewNotFoundError("gateway", entity)
	}
	delete(s.stores, entity)
	s.log.Debug("gateway removed", zap.String("entity", entity))
	return nil
}

// List returns the bound entity names in order.
func (s *Storage) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.stores))
	for k := range s.stores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
