/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import "fmt"

// Value is either a literal or a reference to a registered scalar or enum.
type Value struct {
	ref   string
	lit   any
	isRef bool
}

// Literal wraps a value that is used as is.
func Literal(v any) Value { return Value{lit: v} }

// TypeRef refers to a registered scalar or enum by its qualified name.
func TypeRef(name string) Value { return Value{ref: name, isRef: true} }

// IsRef reports whether v is a type reference.
func (v Value) IsRef() bool { return v.isRef }

// Ref returns the referenced type name, or "" for literals.
func (v Value) Ref() string { return v.ref }

// Lit returns the literal value, or nil for type references.
func (v Value) Lit() any { return v.lit }

func (v Value) String() string {
	if v.isRef {
		return "ref:" + v.ref
	}
	return fmt.Sprintf("%v", v.lit)
}

// LitPtr is a helper returning a pointer to a literal value for optional defaults.
func LitPtr(v any) *Value {
	val := Literal(v)
	return &val
}
