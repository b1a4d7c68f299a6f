/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sort"
	"strings"
	"sync"
)

// PrimaryKey is the name of the key every entity derives from its primary fields.
const PrimaryKey = "primary"

// ScalarType is a named primitive whose exemplar conveys the value's shape.
type ScalarType struct {
	Name     string
	Exemplar any
}

// EnumTag maps one symbolic tag to its underlying value.
type EnumTag struct {
	Tag   string
	Value any
}

// EnumType is an ordered tag to value mapping with a default tag.
type EnumType struct {
	Name    string
	Tags    []EnumTag
	Default string
}

func (e *EnumType) lookupTag(tag string) (EnumTag, bool) {
	for _, t := range e.Tags {
		if t.Tag == tag {
			return t, true
		}
	}
	return EnumTag{}, false
}

// FieldDef declares one entity field. Type is usually a TypeRef; Default,
// when set, overrides the type's own default.
type FieldDef struct {
	Name    string
	Type    Value
	Default *Value
}

// KeyField is one field of a key. An empty Entity means the owning entity,
// otherwise the field is looked up on the named entity. As renames the field
// inside the key value and Default overrides the referenced field's default.
type KeyField struct {
	Entity  string
	Field   string
	As      string
	Default *Value
}

// Name returns the field's name inside a key value.
func (f KeyField) Name() string {
	if f.As != "" {
		return f.As
	}
	return f.Field
}

func (f KeyField) crossEntity(owner string) bool {
	return f.Entity != "" && f.Entity != owner
}

// KeyDef is a named lookup descriptor over an entity. Its typed prototype is
// computed on first use and memoized once resolution succeeds.
type KeyDef struct {
	Name   string
	Unique bool
	Fields []KeyField

	mu    sync.RWMutex
	proto *Prototype
}

func (k *KeyDef) cached() *Prototype {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.proto
}

func (k *KeyDef) memoize(p *Prototype) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.proto = p
}

func (k *KeyDef) forget() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.proto = nil
}

// Resolved reports whether the key's prototype has been memoized.
func (k *KeyDef) Resolved() bool { return k.cached() != nil }

// Prototype is the ordered, typed default map of a key.
type Prototype struct {
	Names    []string
	Defaults map[string]any
}

// Copy returns the prototype defaults as a fresh map.
func (p *Prototype) Copy() map[string]any {
	m := make(map[string]any, len(p.Names))
	for _, n := range p.Names {
		m[n] = p.Defaults[n]
	}
	return m
}

// EntityDef is a named domain record type.
type EntityDef struct {
	Name    string
	Alias   string
	Fields  []FieldDef
	Primary []string
	Keys    map[string]*KeyDef

	// Hooks holds lifecycle hook references verbatim; they are never invoked here.
	Hooks map[string]string
	// Cache is stored from the declaration and not enforced.
	Cache bool

	primary *KeyDef
}

func (e *EntityDef) forgetKeys() {
	if e.primary != nil {
		e.primary.forget()
	}
	for _, k := range e.Keys {
		k.forget()
	}
}

// Field returns the named field declaration.
func (e *EntityDef) Field(name string) (FieldDef, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// LocalName returns the alias, or the unqualified entity name.
func (e *EntityDef) LocalName() string {
	if e.Alias != "" {
		return e.Alias
	}
	_, local := splitName(e.Name)
	return local
}

// KeyNames returns the primary key name followed by the declared keys in sorted order.
func (e *EntityDef) KeyNames() []string {
	names := make([]string, 0, len(e.Keys))
	for n := range e.Keys {
		names = append(names, n)
	}
	sort.Strings(names)
	return append([]string{PrimaryKey}, names...)
}

// splitName splits "ns/Local" into its namespace and local part.
func splitName(name string) (string, string) {
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

// Namespaced reports whether name is a qualified "namespace/Local" identifier.
func Namespaced(name string) bool {
	ns, local := splitName(name)
	return ns != "" && local != "" && !strings.ContainsAny(local, ". ") && !strings.HasSuffix(ns, "/")
}
