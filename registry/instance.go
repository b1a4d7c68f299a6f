/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Instance is a typed value of an entity's fields. Key is set when the
// instance was read through a key.
type Instance struct {
	Entity *EntityDef
	Key    *KeyDef
	Values map[string]any
}

// NewInstance builds an instance of e from values, filling unset fields with
// their typed defaults. Entries that are not fields of e are dropped.
func (r *Registry) NewInstance(e *EntityDef, values map[string]any) (*Instance, error) {
	p, err := r.FieldPrototype(e)
	if err != nil {
		return nil, err
	}
	inst := &Instance{Entity: e, Values: p.Copy()}
	for _, n := range p.Names {
		if v, ok := values[n]; ok {
			inst.Values[n] = v
		}
	}
	return inst, nil
}

// Get returns the value of field.
func (i *Instance) Get(field string) any { return i.Values[field] }

// Clone returns a shallow copy the caller may modify.
func (i *Instance) Clone() *Instance {
	values := make(map[string]any, len(i.Values))
	for k, v := range i.Values {
		values[k] = v
	}
	return &Instance{Entity: i.Entity, Key: i.Key, Values: values}
}

// PrimaryKey returns a string identifying the instance by its primary fields.
// Every part is quoted, so field values cannot run into each other.
func (i *Instance) PrimaryKey() string {
	parts := make([]string, 0, len(i.Entity.Primary))
	for _, f := range i.Entity.Primary {
		parts = append(parts, keyPart(i.Values[f]))
	}
	return i.Entity.Name + "|" + strings.Join(parts, "|")
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s%v", i.Entity.Name, i.Values)
}

func keyPart(v any) string {
	switch n := normalize(v).(type) {
	case string:
		return strconv.Quote(n)
	case nil:
		return "nil"
	default:
		return strconv.Quote(fmt.Sprintf("%T:%v", n, n))
	}
}

// Equal compares two field values. Numbers compare by value whatever their
// kind; integers are compared exactly.
func Equal(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// normalize maps integers to int64, or uint64 above the int64 range, and
// whole floats inside the int64 range to int64. Other floats stay float64.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u)
		}
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 {
			return int64(f)
		}
		return f
	}
	return v
}
