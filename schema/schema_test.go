/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"strings"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitygraph/errors"
	"github.com/suparena/entitygraph/registry"
)

func TestLoadFile(t *testing.T) {
	reg := registry.New()
	require.NoError(t, LoadFile(reg, "testdata/shop.yaml"))

	assert.Equal(t, []string{"shop/Fruit", "shop/Nutrition", "shop/Supplier"}, reg.Entities())

	fruit, err := reg.FindEntity("shop/Fruit")
	require.NoError(t, err)
	assert.True(t, fruit.Cache)
	assert.Equal(t, map[string]string{"afterWrite": "audit"}, fruit.Hooks)
	assert.Equal(t, "Fruit", fruit.LocalName())

	p, err := reg.FieldPrototype(fruit)
	require.NoError(t, err)
	assert.Equal(t, "", p.Defaults["Name"])
	assert.Equal(t, 1, p.Defaults["Status"])
	assert.Equal(t, 1.5, p.Defaults["Price"])
	assert.Equal(t, "unknown", p.Defaults["Origin"])
	assert.IsType(t, strfmt.DateTime{}, p.Defaults["Harvested"])
	assert.Equal(t, strfmt.UUID("a8098c1a-f86e-11da-bd1a-00112444be1e"), p.Defaults["Batch"])

	supplier, err := reg.FindEntity("shop/Supplier")
	require.NoError(t, err)
	assert.Equal(t, []string{registry.PrimaryKey, "by-fruit", "by-price"}, supplier.KeyNames())

	k, err := reg.GetKeyInfo(supplier, "by-fruit")
	require.NoError(t, err)
	kp, err := reg.ResolveKeyFields(supplier, k)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fruit"}, kp.Names)

	k, err = reg.GetKeyInfo(supplier, "by-price")
	require.NoError(t, err)
	assert.True(t, k.Unique)
	kp, err = reg.ResolveKeyFields(supplier, k)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Price": 9.99}, kp.Defaults)

	nutrition, err := reg.FindEntity("shop/Nutrition")
	require.NoError(t, err)
	assert.Equal(t, "Nutrition", nutrition.LocalName())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind error
	}{
		{
			name: "unknown option",
			doc:  "entities:\n  - name: shop/Fruit\n    colour: red\n",
			kind: errors.ErrInvalidDeclaration,
		},
		{
			name: "unknown format",
			doc:  "scalars:\n  - {name: shop/When, format: stardate, exemplar: \"41153.7\"}\n",
			kind: errors.ErrInvalidDeclaration,
		},
		{
			name: "bad formatted exemplar",
			doc:  "scalars:\n  - {name: shop/When, format: date-time, exemplar: \"yesterday\"}\n",
			kind: errors.ErrInvalidDeclaration,
		},
		{
			name: "bad enum default",
			doc:  "enums:\n  - name: shop/Status\n    default: gone\n    tags: [{tag: active, value: 1}]\n",
			kind: errors.ErrInvalidEnum,
		},
		{
			name: "unqualified entity",
			doc:  "entities:\n  - name: Fruit\n",
			kind: errors.ErrInvalidEntityName,
		},
		{
			name: "primary mismatch",
			doc:  "entities:\n  - name: shop/Fruit\n    primary: [Name]\n",
			kind: errors.ErrPrimaryFieldMismatch,
		},
		{
			name: "type and literal",
			doc:  "entities:\n  - name: shop/Fruit\n    fields: [{name: Name, type: shop/Name, literal: x}]\n",
			kind: errors.ErrInvalidDeclaration,
		},
		{
			name: "default and defaultRef",
			doc:  "entities:\n  - name: shop/Fruit\n    fields: [{name: Name, literal: x, default: y, defaultRef: shop/Name}]\n",
			kind: errors.ErrInvalidDeclaration,
		},
		{
			name: "reserved key",
			doc:  "entities:\n  - name: shop/Fruit\n    keys:\n      primary: {fields: [{field: Name}]}\n",
			kind: errors.ErrInvalidDeclaration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Load(registry.New(), strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	reg := registry.New()
	require.NoError(t, Load(reg, strings.NewReader("")))
	assert.Empty(t, reg.Entities())
}

func TestLoadFileMissing(t *testing.T) {
	err := LoadFile(registry.New(), "testdata/missing.yaml")
	assert.Error(t, err)
}

func TestSplitField(t *testing.T) {
	tests := []struct {
		in, entity, field string
	}{
		{"Name", "", "Name"},
		{"shop/Fruit.Name", "shop/Fruit", "Name"},
		{"a/b/Fruit.Name", "a/b/Fruit", "Name"},
		{"Fruit.Name", "", "Fruit.Name"},
	}
	for _, tt := range tests {
		e, f := splitField(tt.in)
		assert.Equal(t, tt.entity, e, tt.in)
		assert.Equal(t, tt.field, f, tt.in)
	}
}
