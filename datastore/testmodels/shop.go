/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels provides a small fruit shop schema with in-memory data.
package testmodels

import (
	"fmt"

	"github.com/suparena/entitygraph/datastore"
	"github.com/suparena/entitygraph/datastore/mock"
	"github.com/suparena/entitygraph/registry"
)

const (
	FruitEntity     = "shop/Fruit"
	SupplierEntity  = "shop/Supplier"
	NutritionEntity = "shop/Nutrition"
)

// Shop bundles the registry and the mock gateway of every shop entity.
type Shop struct {
	Registry  *registry.Registry
	Fruits    *mock.Gateway
	Suppliers *mock.Gateway
	Nutrition *mock.Gateway
}

// Gateway implements datastore.Locator.
func (s *Shop) Gateway(entity string) datastore.Gateway {
	switch entity {
	case FruitEntity:
		return s.Fruits
	case SupplierEntity:
		return s.Suppliers
	case NutritionEntity:
		return s.Nutrition
	}
	return datastore.Noop{}
}

// Fruit returns a fresh instance of the named fruit row.
func (s *Shop) Fruit(name string) *registry.Instance {
	for _, r := range s.Fruits.Rows() {
		if r.Get("Name") == name {
			return r
		}
	}
	panic(fmt.Sprintf("testmodels: no fruit %q", name))
}

// Define registers the shop schema on reg.
func Define(reg *registry.Registry) error {
	reg.DefineScalar("shop/Name", "")
	reg.DefineScalar("shop/Price", 0.0)
	reg.DefineScalar("shop/Kcal", 0)
	if err := reg.DefineEnum("shop/Status", []registry.EnumTag{
		{Tag: "active", Value: 1},
		{Tag: "inactive", Value: 0},
	}, "active"); err != nil {
		return err
	}

	defs := []*registry.EntityDef{
		{
			Name: FruitEntity,
			Fields: []registry.FieldDef{
				{Name: "Name", Type: registry.TypeRef("shop/Name")},
				{Name: "Status", Type: registry.TypeRef("shop/Status")},
				{Name: "Price", Type: registry.TypeRef("shop/Price")},
			},
			Primary: []string{"Name"},
			Keys: map[string]*registry.KeyDef{
				"by-status": {Fields: []registry.KeyField{{Field: "Status"}}},
			},
		},
		{
			Name: SupplierEntity,
			Fields: []registry.FieldDef{
				{Name: "Name", Type: registry.TypeRef("shop/Name")},
				{Name: "Fruit", Type: registry.TypeRef("shop/Name")},
				{Name: "Region", Type: registry.TypeRef("shop/Name")},
			},
			Primary: []string{"Name", "Fruit"},
			Keys: map[string]*registry.KeyDef{
				"by-fruit": {Fields: []registry.KeyField{
					{Entity: FruitEntity, Field: "Name", As: "Fruit"},
				}},
			},
		},
		{
			Name:  NutritionEntity,
			Alias: "Nutrition",
			Fields: []registry.FieldDef{
				{Name: "Name", Type: registry.TypeRef("shop/Name")},
				{Name: "Kcal", Type: registry.TypeRef("shop/Kcal")},
			},
			Primary: []string{"Name"},
		},
	}
	for _, d := range defs {
		if err := reg.DefineEntity(d); err != nil {
			return err
		}
	}
	return nil
}

// NewShop builds the shop schema and fills its gateways.
func NewShop(opts ...registry.Option) (*Shop, error) {
	reg := registry.New(opts...)
	if err := Define(reg); err != nil {
		return nil, err
	}
	s := &Shop{
		Registry:  reg,
		Fruits:    mock.New(),
		Suppliers: mock.New(),
		Nutrition: mock.New(),
	}

	rows := []struct {
		gw     *mock.Gateway
		entity string
		values []map[string]any
	}{
		{s.Fruits, FruitEntity, []map[string]any{
			{"Name": "Strawberry", "Status": 1, "Price": 3.5},
			{"Name": "Apple", "Status": 1, "Price": 0.4},
			{"Name": "Pineapple", "Status": 1, "Price": 2.0},
			{"Name": "Quince", "Status": 0, "Price": 1.2},
			{"Name": "Medlar", "Status": 0, "Price": 0.9},
		}},
		{s.Suppliers, SupplierEntity, []map[string]any{
			{"Name": "Kent Fruits", "Fruit": "Strawberry", "Region": "Kent"},
			{"Name": "Sussex Fruits", "Fruit": "Strawberry", "Region": "Sussex"},
			{"Name": "Kent Fruits", "Fruit": "Apple", "Region": "Kent"},
		}},
		{s.Nutrition, NutritionEntity, []map[string]any{
			{"Name": "Strawberry", "Kcal": 32},
			{"Name": "Apple", "Kcal": 52},
		}},
	}
	for _, r := range rows {
		e, err := reg.FindEntity(r.entity)
		if err != nil {
			return nil, err
		}
		for _, v := range r.values {
			inst, err := reg.NewInstance(e, v)
			if err != nil {
				return nil, err
			}
			r.gw.WithRows(inst)
		}
	}
	return s, nil
}

// MustShop is like NewShop but panics on error.
func MustShop(opts ...registry.Option) *Shop {
	s, err := NewShop(opts...)
	if err != nil {
		panic(err)
	}
	return s
}
