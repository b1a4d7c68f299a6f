/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graph

import (
	"github.com/suparena/entitygraph/errors"
	"github.com/suparena/entitygraph/registry"
)

// MergePolicy names a built-in way of combining a fresh set with an existing one.
type MergePolicy string

const (
	// MergeReplace discards the existing set.
	MergeReplace MergePolicy = "replace"
	// MergeByPrimaryKey keeps the union of both sets; fresh elements win
	// when their instances share a primary key.
	MergeByPrimaryKey MergePolicy = "merge-by-primary-key"
)

// MergeFunc combines the existing set with the fresh one.
type MergeFunc func(instanceName string, current, fresh Array) (Array, error)

func checkMerge(m any) error {
	switch p := m.(type) {
	case nil, MergeFunc, func(string, Array, Array) (Array, error):
		return nil
	case MergePolicy:
		switch p {
		case "", MergeReplace, MergeByPrimaryKey:
			return nil
		}
	}
	return errors.NewAggregateError(errors.ErrIllegalMergeSpecifier, "", "%T %v", m, m)
}

// readsCurrent reports whether m looks at the existing set.
func readsCurrent(m any) bool {
	switch p := m.(type) {
	case nil:
		return false
	case MergePolicy:
		return p == MergeByPrimaryKey
	}
	return true
}

func merge(m any, instanceName string, current, fresh Array) (Array, error) {
	switch p := m.(type) {
	case MergeFunc:
		return p(instanceName, current, fresh)
	case func(string, Array, Array) (Array, error):
		return p(instanceName, current, fresh)
	case MergePolicy:
		if p == MergeByPrimaryKey {
			return mergeByPrimaryKey(instanceName, current, fresh), nil
		}
	}
	return fresh, nil
}

// mergeByPrimaryKey keeps existing elements in place, replaces those whose
// instance shares a primary key with a fresh one and appends the rest.
// Elements without an instance are kept as they are.
func mergeByPrimaryKey(instanceName string, current, fresh Array) Array {
	out := make(Array, 0, len(current)+len(fresh))
	index := make(map[string]int, len(current)+len(fresh))
	add := func(el Map) {
		inst, ok := el[instanceName].(*registry.Instance)
		if !ok || inst == nil {
			out = append(out, el)
			return
		}
		id := inst.PrimaryKey()
		if i, seen := index[id]; seen {
			out[i] = el
			return
		}
		index[id] = len(out)
		out = append(out, el)
	}
	for _, el := range current {
		add(el)
	}
	for _, el := range fresh {
		add(el)
	}
	return out
}
