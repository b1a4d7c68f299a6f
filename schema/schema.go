/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package schema reads YAML schema documents and applies them to a registry.
//
// A document declares scalars, enums and entities:
//
//	scalars:
//	  - name: shop/Name
//	    exemplar: ""
//	  - name: shop/Harvested
//	    format: date-time
//	    exemplar: "2025-01-01T00:00:00Z"
//	enums:
//	  - name: shop/Status
//	    default: active
//	    tags:
//	      - {tag: active, value: 1}
//	      - {tag: inactive, value: 0}
//	entities:
//	  - name: shop/Supplier
//	    fields:
//	      - {name: Name, type: shop/Name}
//	      - {name: Fruit, type: shop/Name}
//	    primary: [Name, Fruit]
//	    keys:
//	      by-fruit:
//	        fields:
//	          - {field: shop/Fruit.Name, as: Fruit}
//
// Key fields written entity.Field refer to a field of another entity.
// Unknown options fail decoding.
package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-openapi/strfmt"
	"gopkg.in/yaml.v3"

	"github.com/suparena/entitygraph/errors"
	"github.com/suparena/entitygraph/registry"
)

// Document is a decoded schema document
type Document struct {
	Scalars  []Scalar `yaml:"scalars"`
	Enums    []Enum   `yaml:"enums"`
	Entities []Entity `yaml:"entities"`
}

// Scalar declares a scalar type. With Format set the exemplar is parsed by
// the strfmt format of that name (date-time, uuid, email, ...).
type Scalar struct {
	Name     string `yaml:"name"`
	Format   string `yaml:"format"`
	Exemplar any    `yaml:"exemplar"`
}

// Enum declares an enum type
type Enum struct {
	Name    string `yaml:"name"`
	Default string `yaml:"default"`
	Tags    []Tag  `yaml:"tags"`
}

// Tag is one enum symbol
type Tag struct {
	Tag   string `yaml:"tag"`
	Value any    `yaml:"value"`
}

// Entity declares an entity
type Entity struct {
	Name    string            `yaml:"name"`
	Alias   string            `yaml:"alias"`
	Fields  []Field           `yaml:"fields"`
	Primary []string          `yaml:"primary"`
	Keys    map[string]Key    `yaml:"keys"`
	Hooks   map[string]string `yaml:"hooks"`
	Cache   bool              `yaml:"cache"`
}

// Field declares an entity field. Type names a scalar or enum; Literal
// gives the field a literal type instead. Default and DefaultRef are
// exclusive.
type Field struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Literal    any    `yaml:"literal"`
	Default    any    `yaml:"default"`
	DefaultRef string `yaml:"defaultRef"`
}

// Key declares a secondary key
type Key struct {
	Unique bool       `yaml:"unique"`
	Fields []KeyField `yaml:"fields"`
}

// KeyField is a local field name or entity.Field of another entity.
type KeyField struct {
	Field      string `yaml:"field"`
	As         string `yaml:"as"`
	Default    any    `yaml:"default"`
	DefaultRef string `yaml:"defaultRef"`
}

// Parse decodes a document. Unknown options are errors.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidDeclaration, err)
	}
	return &doc, nil
}

// Load parses a document from r and applies it to reg.
func Load(reg *registry.Registry, r io.Reader) error {
	doc, err := Parse(r)
	if err != nil {
		return err
	}
	return doc.Apply(reg)
}

// LoadFile loads the document at path into reg.
func LoadFile(reg *registry.Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if err := Load(reg, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Apply defines the document's scalars, then its enums, then its entities.
// It stops at the first failing declaration; earlier ones stay defined.
func (d *Document) Apply(reg *registry.Registry) error {
	for _, s := range d.Scalars {
		v, err := s.exemplar()
		if err != nil {
			return err
		}
		reg.DefineScalar(s.Name, v)
	}
	for _, e := range d.Enums {
		tags := make([]registry.EnumTag, len(e.Tags))
		for i, t := range e.Tags {
			tags[i] = registry.EnumTag{Tag: t.Tag, Value: t.Value}
		}
		if err := reg.DefineEnum(e.Name, tags, e.Default); err != nil {
			return err
		}
	}
	for _, e := range d.Entities {
		def, err := e.definition()
		if err != nil {
			return err
		}
		if err := reg.DefineEntity(def); err != nil {
			return err
		}
	}
	return nil
}

func (s Scalar) exemplar() (any, error) {
	if s.Format == "" {
		return s.Exemplar, nil
	}
	if !strfmt.Default.ContainsName(s.Format) {
		return nil, errors.NewDefinitionError(errors.ErrInvalidDeclaration, s.Name, fmt.Sprintf("unknown format %q", s.Format))
	}
	text, ok := s.Exemplar.(string)
	if !ok {
		return nil, errors.NewDefinitionError(errors.ErrInvalidDeclaration, s.Name, "formatted exemplar must be a string")
	}
	v, err := strfmt.Default.Parse(s.Format, text)
	if err != nil {
		return nil, &errors.DefinitionError{Kind: errors.ErrInvalidDeclaration, Name: s.Name, Detail: "exemplar", Cause: err}
	}
	return v, nil
}

func (e Entity) definition() (*registry.EntityDef, error) {
	def := &registry.EntityDef{
		Name:    e.Name,
		Alias:   e.Alias,
		Primary: e.Primary,
		Hooks:   e.Hooks,
		Cache:   e.Cache,
	}
	for _, f := range e.Fields {
		fd := registry.FieldDef{Name: f.Name, Type: registry.TypeRef(f.Type)}
		switch {
		case f.Type != "" && f.Literal != nil:
			return nil, errors.NewDefinitionError(errors.ErrInvalidDeclaration, e.Name, fmt.Sprintf("field %q has both type and literal", f.Name))
		case f.Type == "":
			fd.Type = registry.Literal(f.Literal)
		}
		dv, err := defaultValue(e.Name, f.Name, f.Default, f.DefaultRef)
		if err != nil {
			return nil, err
		}
		fd.Default = dv
		def.Fields = append(def.Fields, fd)
	}

	if len(e.Keys) > 0 {
		def.Keys = make(map[string]*registry.KeyDef, len(e.Keys))
	}
	for name, k := range e.Keys {
		kd := &registry.KeyDef{Name: name, Unique: k.Unique}
		for _, f := range k.Fields {
			kf := registry.KeyField{As: f.As}
			kf.Entity, kf.Field = splitField(f.Field)
			dv, err := defaultValue(e.Name, f.Field, f.Default, f.DefaultRef)
			if err != nil {
				return nil, err
			}
			kf.Default = dv
			kd.Fields = append(kd.Fields, kf)
		}
		def.Keys[name] = kd
	}
	return def, nil
}

func defaultValue(entity, field string, lit any, ref string) (*registry.Value, error) {
	switch {
	case lit != nil && ref != "":
		return nil, errors.NewDefinitionError(errors.ErrInvalidDeclaration, entity, fmt.Sprintf("%q has both default and defaultRef", field))
	case ref != "":
		v := registry.TypeRef(ref)
		return &v, nil
	case lit != nil:
		return registry.LitPtr(lit), nil
	}
	return nil, nil
}

// splitField splits "ns/Entity.Field" into entity and field. Names without
// a namespaced prefix are local fields.
func splitField(s string) (string, string) {
	i := strings.LastIndex(s, ".")
	if i < 0 || !registry.Namespaced(s[:i]) {
		return "", s
	}
	return s[:i], s[i+1:]
}
