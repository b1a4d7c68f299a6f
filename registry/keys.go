/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/suparena/entitygraph/errors"
)

// KeyValue is a typed key map together with the identity it was built for.
type KeyValue struct {
	Entity    *EntityDef
	Key       *KeyDef
	Prototype *Prototype
	Values    map[string]any
}

// Unique reports whether the key addresses at most one instance.
func (kv *KeyValue) Unique() bool { return kv.Key.Unique }

// Get returns the value of a key field.
func (kv *KeyValue) Get(name string) any { return kv.Values[name] }

// GetKeyInfo returns the named key of e. PrimaryKey names the derived primary key.
func (r *Registry) GetKeyInfo(e *EntityDef, name string) (*KeyDef, error) {
	if name == PrimaryKey && e.primary != nil {
		return e.primary, nil
	}
	if k, ok := e.Keys[name]; ok && name != PrimaryKey {
		return k, nil
	}
	return nil, errors.NewKeyError(errors.ErrKeyNotFound, e.Name, name, "")
}

// ResolveKeyFields computes the typed prototype of k. Local fields take
// their default from e, cross-entity fields from the referenced entity.
// A successful result is memoized on k; failures are not, so a later call
// may succeed once the referenced entity is registered.
func (r *Registry) ResolveKeyFields(e *EntityDef, k *KeyDef) (*Prototype, error) {
	if p := k.cached(); p != nil {
		return p, nil
	}
	r.mu.RLock()
	gen := r.gen
	r.mu.RUnlock()

	v, err, _ := r.flight.Do(fmt.Sprintf("%s#%s#%d", e.Name, k.Name, gen), func() (any, error) {
		if p := k.cached(); p != nil {
			return p, nil
		}
		p, err := r.computeKey(e, k)
		if err != nil {
			return nil, err
		}
		// a redefinition while computing makes p stale; return it uncached
		r.mu.RLock()
		if r.gen == gen {
			k.memoize(p)
		}
		r.mu.RUnlock()
		r.log.Debug("key prototype resolved",
			zap.String("entity", e.Name),
			zap.String("key", k.Name),
			zap.Strings("fields", p.Names),
			zap.Bool("memoized", k.cached() == p))
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Prototype), nil
}

func (r *Registry) computeKey(e *EntityDef, k *KeyDef) (*Prototype, error) {
	p := &Prototype{
		Names:    make([]string, 0, len(k.Fields)),
		Defaults: make(map[string]any, len(k.Fields)),
	}
	for _, f := range k.Fields {
		owner := e
		if f.crossEntity(e.Name) {
			other, err := r.FindEntity(f.Entity)
			if err != nil {
				return nil, &errors.KeyError{Kind: errors.ErrUnresolvableKeyField, Entity: e.Name, Key: k.Name, Field: f.Field, Cause: err}
			}
			owner = other
		}
		def, ok := owner.Field(f.Field)
		if !ok {
			return nil, errors.NewKeyError(errors.ErrUnresolvableKeyField, e.Name, k.Name, f.Field)
		}
		v := def.Type
		if def.Default != nil {
			v = *def.Default
		}
		if f.Default != nil {
			v = *f.Default
		}
		val, err := r.ResolveValue(v)
		if err != nil {
			return nil, &errors.KeyError{Kind: errors.ErrUnresolvableKeyField, Entity: e.Name, Key: k.Name, Field: f.Field, Cause: err}
		}
		name := f.Name()
		p.Names = append(p.Names, name)
		p.Defaults[name] = val
	}
	return p, nil
}

// MakeKey builds a key value holding exactly the fields of the named key.
// Supplied values override the defaults by field name and extra entries are
// ignored. A nil map fails with ErrKeyValueRequired; an empty one yields
// all defaults.
func (r *Registry) MakeKey(e *EntityDef, keyName string, supplied map[string]any) (*KeyValue, error) {
	k, err := r.GetKeyInfo(e, keyName)
	if err != nil {
		return nil, err
	}
	if supplied == nil {
		return nil, errors.NewKeyError(errors.ErrKeyValueRequired, e.Name, keyName, "")
	}
	p, err := r.ResolveKeyFields(e, k)
	if err != nil {
		return nil, err
	}

	values := p.Copy()
	for _, f := range k.Fields {
		name := f.Name()
		if v, ok := supplied[name]; ok {
			values[name] = v
			continue
		}
		// joining from an instance of the referenced entity
		if f.crossEntity(e.Name) && f.As != "" {
			if v, ok := supplied[f.Field]; ok {
				values[name] = v
			}
		}
	}
	return &KeyValue{Entity: e, Key: k, Prototype: p, Values: values}, nil
}
