/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/suparena/entitygraph/errors"
)

// Registry is the catalog of scalar, enum and entity definitions.
// It is written while a schema loads and read afterwards; the only later
// mutation is key prototype memoization. Redefining a name drops every
// memoized key prototype.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]any
	gen    uint64
	log    *zap.Logger
	flight singleflight.Group
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for definition and resolution events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		types: make(map[string]any),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefineScalar registers a scalar. Redefinition replaces the earlier one and
// keys resolved against it are resolved again on next use.
func (r *Registry) DefineScalar(name string, exemplar any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(name, &ScalarType{Name: name, Exemplar: exemplar})
	r.log.Debug("scalar defined", zap.String("name", name), zap.Any("exemplar", exemplar))
}

// DefineEnum registers an enum; the default tag must be one of its tags.
func (r *Registry) DefineEnum(name string, tags []EnumTag, defaultTag string) error {
	e := &EnumType{Name: name, Tags: append([]EnumTag(nil), tags...), Default: defaultTag}
	if _, ok := e.lookupTag(defaultTag); !ok {
		return errors.NewDefinitionError(errors.ErrInvalidEnum, name, fmt.Sprintf("default tag %q not in mapping", defaultTag))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(name, e)
	r.log.Debug("enum defined", zap.String("name", name), zap.String("default", defaultTag))
	return nil
}

// DefineEntity validates and registers def, deriving its primary key.
// The registry keeps def; callers must not modify it afterwards.
func (r *Registry) DefineEntity(def *EntityDef) error {
	if !Namespaced(def.Name) {
		return errors.NewDefinitionError(errors.ErrInvalidEntityName, def.Name, "expected namespace/Name")
	}
	for _, p := range def.Primary {
		if _, ok := def.Field(p); !ok {
			return errors.NewDefinitionError(errors.ErrPrimaryFieldMismatch, def.Name, fmt.Sprintf("field %q", p))
		}
	}
	if _, ok := def.Keys[PrimaryKey]; ok {
		return errors.NewDefinitionError(errors.ErrInvalidDeclaration, def.Name, fmt.Sprintf("key name %q is reserved", PrimaryKey))
	}

	for name, k := range def.Keys {
		if k.Name == "" {
			k.Name = name
		}
	}
	primary := &KeyDef{Name: PrimaryKey, Unique: true}
	for _, p := range def.Primary {
		primary.Fields = append(primary.Fields, KeyField{Field: p})
	}
	def.primary = primary

	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(def.Name, def)
	r.log.Debug("entity defined",
		zap.String("name", def.Name),
		zap.Strings("primary", def.Primary),
		zap.Strings("keys", def.KeyNames()))
	return nil
}

// put stores t under name; r.mu must be held for writing.
func (r *Registry) put(name string, t any) {
	if _, exists := r.types[name]; exists {
		r.gen++
		for _, old := range r.types {
			if e, ok := old.(*EntityDef); ok {
				e.forgetKeys()
			}
		}
		r.log.Debug("definition replaced", zap.String("name", name), zap.Uint64("generation", r.gen))
	}
	r.types[name] = t
}

func (r *Registry) lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// ResolveValue returns a literal unchanged, a scalar's exemplar, or an
// enum's default underlying value.
func (r *Registry) ResolveValue(v Value) (any, error) {
	if !v.IsRef() {
		return v.Lit(), nil
	}
	t, ok := r.lookup(v.Ref())
	if !ok {
		return nil, errors.NewReferenceError(errors.ErrUnresolvedReference, v.Ref(), "")
	}
	switch t := t.(type) {
	case *ScalarType:
		return t.Exemplar, nil
	case *EnumType:
		tag, _ := t.lookupTag(t.Default)
		return tag.Value, nil
	default:
		return nil, errors.NewReferenceError(errors.ErrUnresolvedReference, v.Ref(), "not a value type")
	}
}

// FindEntity returns the named entity definition.
func (r *Registry) FindEntity(name string) (*EntityDef, error) {
	t, ok := r.lookup(name)
	if !ok {
		return nil, errors.NewReferenceError(errors.ErrUnknownEntity, name, "")
	}
	e, ok := t.(*EntityDef)
	if !ok {
		return nil, errors.NewReferenceError(errors.ErrUnknownEntity, name, "not an entity")
	}
	return e, nil
}

func (r *Registry) findEnum(name string) (*EnumType, error) {
	t, _ := r.lookup(name)
	e, ok := t.(*EnumType)
	if !ok {
		return nil, errors.NewReferenceError(errors.ErrNotAnEnum, name, "")
	}
	return e, nil
}

// EnumValue returns the underlying value of tag.
func (r *Registry) EnumValue(enumRef, tag string) (any, error) {
	e, err := r.findEnum(enumRef)
	if err != nil {
		return nil, err
	}
	t, ok := e.lookupTag(tag)
	if !ok {
		return nil, errors.NewReferenceError(errors.ErrUnknownEnumSymbol, enumRef, fmt.Sprintf("tag %q", tag))
	}
	return t.Value, nil
}

// EnumTag returns the tag whose underlying value equals value.
func (r *Registry) EnumTag(enumRef string, value any) (string, error) {
	e, err := r.findEnum(enumRef)
	if err != nil {
		return "", err
	}
	for _, t := range e.Tags {
		if Equal(t.Value, value) {
			return t.Tag, nil
		}
	}
	return "", errors.NewReferenceError(errors.ErrUnknownEnumValue, enumRef, fmt.Sprintf("value %v", value))
}

// FieldPrototype resolves every field of e to its typed default.
func (r *Registry) FieldPrototype(e *EntityDef) (*Prototype, error) {
	p := &Prototype{
		Names:    make([]string, 0, len(e.Fields)),
		Defaults: make(map[string]any, len(e.Fields)),
	}
	for _, f := range e.Fields {
		v := f.Type
		if f.Default != nil {
			v = *f.Default
		}
		val, err := r.ResolveValue(v)
		if err != nil {
			return nil, &errors.DefinitionError{Kind: errors.ErrInvalidDeclaration, Name: e.Name, Detail: fmt.Sprintf("field %q", f.Name), Cause: err}
		}
		p.Names = append(p.Names, f.Name)
		p.Defaults[f.Name] = val
	}
	return p, nil
}

// Entities returns the names of all registered entities in sorted order.
func (r *Registry) Entities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, t := range r.types {
		if _, ok := t.(*EntityDef); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
