/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/suparena/entitygraph/datastore"
	"github.com/suparena/entitygraph/errors"
	"github.com/suparena/entitygraph/registry"
)

// Map is a graph node keyed by string. Values are *registry.Instance, Map,
// Array, nil, or caller-supplied data.
type Map map[string]any

// Array is a set of graph nodes.
type Array []Map

// ForEachFunc transforms a freshly written node; its result replaces the node.
type ForEachFunc func(v any) (any, error)

// Spec describes one join.
type Spec struct {
	// To is the target entity.
	To string
	// From is the path of the join source; empty seeds the root.
	From Path
	// Key names the target key; it defaults to the primary key.
	Key string
	// KeyVal is the key argument: nil, a key name, KeyPair, *registry.KeyValue,
	// Map, map[string]any or KeyFunc. Nil builds the key from the join source.
	KeyVal any
	// InstanceName is the map key for a joined instance; it defaults to the
	// target's alias or unqualified name.
	InstanceName string
	// SetName is the map key for the joined set; required for non-unique keys.
	SetName string
	// Merge is nil, a MergePolicy or a MergeFunc.
	Merge any
	// MustJoin drops array elements the join found nothing for.
	MustJoin bool
	// ForEach runs once per freshly written node.
	ForEach ForEachFunc
}

// Aggregator extends graphs by joining entities through their keys.
type Aggregator struct {
	reg    *registry.Registry
	stores datastore.Locator
	log    *zap.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for join events.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an Aggregator reading through the gateways of stores.
// A nil stores treats every entity as having no physical store.
func New(reg *registry.Registry, stores datastore.Locator, opts ...Option) *Aggregator {
	a := &Aggregator{reg: reg, stores: stores, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// join is the state of one Aggregate call.
type join struct {
	agg          *Aggregator
	spec         *Spec
	target       *registry.EntityDef
	key          *registry.KeyDef
	instanceName string
	gw           datastore.Gateway
}

// Aggregate resolves spec against g and returns the extended graph. A nil g
// starts an empty root. The graph is modified in place; when an error is
// returned it may be partially written and should be discarded.
func (a *Aggregator) Aggregate(ctx context.Context, g Map, spec Spec) (Map, error) {
	sh, err := compile(spec.From)
	if err != nil {
		return nil, err
	}
	if err := checkMerge(spec.Merge); err != nil {
		return nil, err
	}
	target, err := a.reg.FindEntity(spec.To)
	if err != nil {
		return nil, err
	}
	key, err := a.reg.GetKeyInfo(target, staticKeyName(&spec, target))
	if err != nil {
		return nil, err
	}
	if !key.Unique && spec.SetName == "" {
		return nil, errors.NewAggregateError(errors.ErrMissingSetName, target.Name, "key %q is not unique", key.Name)
	}

	j := &join{
		agg:          a,
		spec:         &spec,
		target:       target,
		key:          key,
		instanceName: spec.InstanceName,
		gw:           a.gateway(target.Name),
	}
	if j.instanceName == "" {
		j.instanceName = target.LocalName()
	}
	if g == nil {
		g = Map{}
	}

	switch sh {
	case seedRoot:
		err = j.root(ctx, g, nil)
	case rootField:
		err = j.root(ctx, g, g[spec.From[0].key])
	case nested:
		_, _, err = j.walk(ctx, g, spec.From)
	}
	if err != nil {
		return g, err
	}
	return g, nil
}

func (a *Aggregator) gateway(entity string) datastore.Gateway {
	if a.stores == nil {
		return datastore.Noop{}
	}
	if gw := a.stores.Gateway(entity); gw != nil {
		return gw
	}
	return datastore.Noop{}
}

// root joins at the root node; ForEach sees the whole written value.
func (j *join) root(ctx context.Context, g Map, from any) error {
	name, _, err := j.match(ctx, g, from)
	if err != nil {
		return err
	}
	if j.spec.ForEach != nil {
		v, err := j.spec.ForEach(g[name])
		if err != nil {
			return err
		}
		g[name] = v
	}
	return nil
}

// walk follows rest from m to the insertion point. It returns the node that
// replaces m and whether m is kept in its enclosing array.
func (j *join) walk(ctx context.Context, m Map, rest Path) (Map, bool, error) {
	if len(rest) == 1 {
		return j.leaf(ctx, m, m[rest[0].key])
	}

	name := rest[0].key
	child := m[name]
	if child == nil {
		return m, !j.spec.MustJoin, nil
	}

	if !rest[1].each {
		sub, ok := asMap(child)
		if !ok {
			return nil, false, errors.NewAggregateError(errors.ErrInvalidPath, j.target.Name, "%q holds %T, not a map", name, child)
		}
		res, keep, err := j.walk(ctx, sub, rest[1:])
		if err != nil {
			return nil, false, err
		}
		m[name] = res
		return m, keep, nil
	}

	arr, ok := asArray(child)
	if !ok {
		return nil, false, errors.NewAggregateError(errors.ErrInvalidPath, j.target.Name, "%q holds %T, not an array", name, child)
	}
	out := make(Array, 0, len(arr))
	for _, el := range arr {
		if el == nil {
			if !j.spec.MustJoin {
				out = append(out, el)
			}
			continue
		}
		res, keep, err := j.walk(ctx, el, rest[2:])
		if err != nil {
			return nil, false, err
		}
		if keep {
			out = append(out, res)
		}
	}
	m[name] = out
	return m, true, nil
}

// leaf joins into the insertion node m; ForEach sees m itself.
func (j *join) leaf(ctx context.Context, m Map, from any) (Map, bool, error) {
	_, joined, err := j.match(ctx, m, from)
	if err != nil {
		return nil, false, err
	}
	if j.spec.MustJoin && !joined {
		return m, false, nil
	}
	if j.spec.ForEach == nil {
		return m, true, nil
	}
	v, err := j.spec.ForEach(m)
	if err != nil {
		return nil, false, err
	}
	res, ok := asMap(v)
	if !ok {
		return nil, false, errors.NewAggregateError(errors.ErrIllegalHookResult, j.target.Name, "forEach returned %T, not a map", v)
	}
	return res, true, nil
}

// match reads the target for one location and writes the result into parent.
// It returns the map key written and whether anything was joined.
func (j *join) match(ctx context.Context, parent Map, from any) (string, bool, error) {
	kv, err := j.keyValue(j.spec.KeyVal, parent, from, false)
	if err != nil {
		return "", false, err
	}
	if !kv.Unique() && j.spec.SetName == "" {
		return "", false, errors.NewAggregateError(errors.ErrMissingSetName, j.target.Name, "key %q is not unique", kv.Key.Name)
	}

	insts, err := j.gw.ReadByKey(ctx, kv.Key.Name, kv)
	if err != nil {
		return "", false, fmt.Errorf("read %s by %s: %w", j.target.Name, kv.Key.Name, err)
	}
	j.agg.log.Debug("join read",
		zap.String("entity", j.target.Name),
		zap.String("key", kv.Key.Name),
		zap.Any("value", kv.Values),
		zap.Int("matches", len(insts)))

	if kv.Unique() {
		var v any
		if len(insts) > 0 && insts[0] != nil {
			v = insts[0]
		}
		parent[j.instanceName] = v
		return j.instanceName, v != nil, nil
	}

	fresh := make(Array, 0, len(insts))
	for _, inst := range insts {
		el := Map{j.instanceName: nil}
		if inst != nil {
			el[j.instanceName] = inst
		} else if j.spec.MustJoin {
			continue
		}
		fresh = append(fresh, el)
	}
	var current Array
	if readsCurrent(j.spec.Merge) {
		var ok bool
		if current, ok = asArray(parent[j.spec.SetName]); !ok {
			return "", false, errors.NewAggregateError(errors.ErrInvalidPath, j.target.Name, "set %q holds %T, not an array", j.spec.SetName, parent[j.spec.SetName])
		}
	}
	merged, err := merge(j.spec.Merge, j.instanceName, current, fresh)
	if err != nil {
		return "", false, err
	}
	parent[j.spec.SetName] = merged
	return j.spec.SetName, len(fresh) > 0, nil
}

func asMap(v any) (Map, bool) {
	switch m := v.(type) {
	case Map:
		return m, m != nil
	case map[string]any:
		return Map(m), m != nil
	}
	return nil, false
}

func asArray(v any) (Array, bool) {
	switch a := v.(type) {
	case nil:
		return nil, true
	case Array:
		return a, true
	case []Map:
		return Array(a), true
	case []map[string]any:
		arr := make(Array, len(a))
		for i, m := range a {
			arr[i] = m
		}
		return arr, true
	case []any:
		arr := make(Array, len(a))
		for i, el := range a {
			if el == nil {
				continue
			}
			m, ok := asMap(el)
			if !ok {
				return nil, false
			}
			arr[i] = m
		}
		return arr, true
	}
	return nil, false
}
