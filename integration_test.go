//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitygraph_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/suparena/entitygraph"
	"github.com/suparena/entitygraph/datastore/ddb"
	"github.com/suparena/entitygraph/datastore/testmodels"
	"github.com/suparena/entitygraph/graph"
	"github.com/suparena/entitygraph/registry"
)

// setupStorage binds the shop entities to the table named by AWS_DDB_TABLE.
// The table needs PK/SK keys and a GSI1 index on GSI1PK/GSI1SK.
func setupStorage(t *testing.T) (*entitygraph.Storage, *testmodels.Shop) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	cfg, err := ddb.LoadConfig()
	if err != nil || cfg.TableName == "" || os.Getenv("AWS_DDB_TABLE") == "" {
		t.Skip("AWS_DDB_TABLE not set, skipping integration test")
	}
	client, err := ddb.NewClient(context.Background(), cfg)
	require.NoError(t, err)

	shop := testmodels.MustShop()
	log := zaptest.NewLogger(t)
	storage := entitygraph.NewStorage(entitygraph.WithLogger(log))

	run := fmt.Sprintf("%d", time.Now().UnixNano())
	bindings := map[string]ddb.Binding{
		testmodels.FruitEntity: ddb.TableBinding(cfg.TableName, "IT#"+run+"#FRUIT#{Name}", "FRUIT").
			WithIndex("by-status", "GSI1", "IT#"+run+"#STATUS#{Status}", "FRUIT"),
		testmodels.SupplierEntity: ddb.TableBinding(cfg.TableName, "IT#"+run+"#SUPPLIER#{Name}", "FRUIT#{Fruit}").
			WithIndex("by-fruit", "GSI1", "IT#"+run+"#FRUIT#{Fruit}", "SUPPLIER"),
		testmodels.NutritionEntity: ddb.TableBinding(cfg.TableName, "IT#"+run+"#FRUIT#{Name}", "NUTRITION"),
	}
	for entity, b := range bindings {
		e, err := shop.Registry.FindEntity(entity)
		require.NoError(t, err)
		gw, err := ddb.New(shop.Registry, e, client, b, ddb.WithLogger(log))
		require.NoError(t, err)
		require.NoError(t, storage.Register(entity, gw))
	}

	ctx := context.Background()
	seed := map[string][]*registry.Instance{
		testmodels.FruitEntity:     shop.Fruits.Rows(),
		testmodels.SupplierEntity:  shop.Suppliers.Rows(),
		testmodels.NutritionEntity: shop.Nutrition.Rows(),
	}
	for entity, rows := range seed {
		gw, err := storage.Get(entity)
		require.NoError(t, err)
		for _, row := range rows {
			_, err := gw.Write(ctx, row)
			require.NoError(t, err)
		}
		t.Cleanup(func() {
			for _, row := range rows {
				_, _ = gw.Delete(context.Background(), row)
			}
		})
	}
	return storage, shop
}

func TestIntegrationAggregate(t *testing.T) {
	storage, shop := setupStorage(t)
	ctx := context.Background()
	agg := graph.New(shop.Registry, storage)

	g, err := agg.Aggregate(ctx, graph.Map{"fruit": shop.Fruit("Strawberry")}, graph.Spec{
		To:      testmodels.SupplierEntity,
		From:    graph.Keys("fruit"),
		KeyVal:  "by-fruit",
		SetName: "suppliers",
	})
	require.NoError(t, err)
	assert.Len(t, g["suppliers"], 2)

	g, err = agg.Aggregate(ctx, graph.Map{"fruits": graph.Array{
		{"Fruit": shop.Fruit("Strawberry")},
		{"Fruit": shop.Fruit("Pineapple")},
	}}, graph.Spec{
		To:       testmodels.NutritionEntity,
		From:     graph.Path{graph.Key("fruits"), graph.Each, graph.Key("Fruit")},
		MustJoin: true,
	})
	require.NoError(t, err)
	assert.Len(t, g["fruits"], 1)
}
