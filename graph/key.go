/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graph

import (
	"github.com/suparena/entitygraph/errors"
	"github.com/suparena/entitygraph/registry"
)

// KeyPair names a key together with the values to build it from.
type KeyPair struct {
	Key   string
	Value map[string]any
}

// KeyContext is passed to a KeyFunc.
type KeyContext struct {
	Key          string
	KeyVal       any
	Entity       *registry.EntityDef
	SetName      string
	InstanceName string
}

// KeyFunc computes the key argument for one match from the node being
// written to and the join source value. It returns any other key argument form.
type KeyFunc func(parent Map, from any, kc KeyContext) (any, error)

// staticKeyName is the key a spec names before any key function runs.
func staticKeyName(spec *Spec, target *registry.EntityDef) string {
	switch v := spec.KeyVal.(type) {
	case string:
		return v
	case KeyPair:
		return v.Key
	case *registry.KeyValue:
		if v != nil && v.Entity != nil && v.Entity.Name == target.Name {
			return v.Key.Name
		}
	}
	if spec.Key != "" {
		return spec.Key
	}
	return registry.PrimaryKey
}

// keyValue turns a key argument into a key value of the join's target.
func (j *join) keyValue(arg any, parent Map, from any, called bool) (*registry.KeyValue, error) {
	reg := j.agg.reg
	switch v := arg.(type) {
	case nil:
		supplied, err := j.supplied(from)
		if err != nil {
			return nil, err
		}
		return reg.MakeKey(j.target, j.key.Name, supplied)
	case string:
		supplied, err := j.supplied(from)
		if err != nil {
			return nil, err
		}
		return reg.MakeKey(j.target, v, supplied)
	case KeyPair:
		return reg.MakeKey(j.target, v.Key, v.Value)
	case *registry.KeyValue:
		if v == nil {
			break
		}
		if v.Entity != nil && v.Entity.Name == j.target.Name {
			return v, nil
		}
		return reg.MakeKey(j.target, j.key.Name, v.Values)
	case Map:
		return reg.MakeKey(j.target, j.key.Name, v)
	case map[string]any:
		return reg.MakeKey(j.target, j.key.Name, v)
	case KeyFunc:
		if !called {
			return j.callKeyFunc(v, parent, from)
		}
	case func(Map, any, KeyContext) (any, error):
		if !called {
			return j.callKeyFunc(v, parent, from)
		}
	}
	return nil, errors.NewAggregateError(errors.ErrUnresolvableKeyArgument, j.target.Name, "key argument %T", arg)
}

func (j *join) callKeyFunc(f KeyFunc, parent Map, from any) (*registry.KeyValue, error) {
	arg, err := f(parent, from, KeyContext{
		Key:          j.key.Name,
		KeyVal:       j.spec.KeyVal,
		Entity:       j.target,
		SetName:      j.spec.SetName,
		InstanceName: j.instanceName,
	})
	if err != nil {
		return nil, err
	}
	return j.keyValue(arg, parent, from, true)
}

// supplied returns the field values a join source offers to a key.
func (j *join) supplied(from any) (map[string]any, error) {
	switch v := from.(type) {
	case nil:
		return nil, nil
	case *registry.Instance:
		if v == nil {
			return nil, nil
		}
		return v.Values, nil
	case *registry.KeyValue:
		if v == nil {
			return nil, nil
		}
		return v.Values, nil
	case Map:
		return v, nil
	case map[string]any:
		return v, nil
	}
	return nil, errors.NewAggregateError(errors.ErrUnresolvableKeyArgument, j.target.Name, "cannot build a key from %T", from)
}
