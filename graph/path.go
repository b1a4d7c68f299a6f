/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graph

import (
	"strings"

	"github.com/suparena/entitygraph/errors"
)

// Step is one step of a Path: a map key descent or the Each marker.
type Step struct {
	key  string
	each bool
}

// Key descends into the named map entry.
func Key(name string) Step { return Step{key: name} }

// Each repeats the rest of the path for every element of an array.
var Each = Step{each: true}

// IsEach reports whether s is the Each marker.
func (s Step) IsEach() bool { return s.each }

// Name returns the map key of a descent step.
func (s Step) Name() string { return s.key }

func (s Step) String() string {
	if s.each {
		return "*"
	}
	return s.key
}

// Path names the join source inside a graph.
type Path []Step

// Keys builds a path of map key descents.
func Keys(names ...string) Path {
	p := make(Path, len(names))
	for i, n := range names {
		p[i] = Key(n)
	}
	return p
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

type shape int

const (
	// seed the root from the key argument alone
	seedRoot shape = iota
	// join from a root field, writing at the root
	rootField
	// descend to the map holding the last key, writing there
	nested
)

// compile checks the shape of p. A nested path alternates key descents
// with optional Each markers and ends with the key of the join source.
func compile(p Path) (shape, error) {
	switch len(p) {
	case 0:
		return seedRoot, nil
	case 1:
		if p[0].each || p[0].key == "" {
			return 0, errors.NewAggregateError(errors.ErrInvalidPath, "", "path %s must name a root field", p)
		}
		return rootField, nil
	case 2:
		return 0, errors.NewAggregateError(errors.ErrInvalidPath, "", "path %s has no insertion point", p)
	}
	if p[0].each {
		return 0, errors.NewAggregateError(errors.ErrInvalidPath, "", "path %s starts with each", p)
	}
	if p[len(p)-1].each {
		return 0, errors.NewAggregateError(errors.ErrInvalidPath, "", "path %s ends with each", p)
	}
	for i, s := range p {
		if s.each {
			if p[i-1].each {
				return 0, errors.NewAggregateError(errors.ErrInvalidPath, "", "path %s repeats each", p)
			}
			continue
		}
		if s.key == "" {
			return 0, errors.NewAggregateError(errors.ErrInvalidPath, "", "path %s has an empty key at %d", p, i)
		}
	}
	return nested, nil
}
