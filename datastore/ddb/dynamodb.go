/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/entitygraph/datastore"
	storeerrors "github.com/suparena/entitygraph/errors"
	"github.com/suparena/entitygraph/registry"
)

// EntityTypeAttribute names the attribute holding the entity name of an item
const EntityTypeAttribute = "EntityType"

// Client is the subset of the DynamoDB API used by Gateway.
// *dynamodb.Client implements it.
type Client interface {
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// Gateway implements datastore.Gateway for one entity stored in a DynamoDB
// table. Several entities may share a table; items carry their entity name
// in EntityTypeAttribute.
type Gateway struct {
	reg     *registry.Registry
	entity  *registry.EntityDef
	client  Client
	binding Binding
	options Options
	log     *zap.Logger
}

var _ datastore.Gateway = (*Gateway)(nil)

// Options configures reads of a Gateway.
type Options struct {
	PageSize     int32         // Items per Query page (default: 100)
	MaxRetries   int           // Retry attempts for throttled queries (default: 3)
	RetryBackoff time.Duration // Backoff between retries, scaled by attempt (default: 1s)
}

// Option is a functional option for a Gateway
type Option func(*Gateway)

// DefaultOptions returns the default read options
func DefaultOptions() Options {
	return Options{PageSize: 100, MaxRetries: 3, RetryBackoff: time.Second}
}

// WithPageSize sets the Query page size
func WithPageSize(size int32) Option {
	return func(g *Gateway) { g.options.PageSize = size }
}

// WithMaxRetries sets the maximum retry attempts
func WithMaxRetries(retries int) Option {
	return func(g *Gateway) { g.options.MaxRetries = retries }
}

// WithRetryBackoff sets the retry backoff duration
func WithRetryBackoff(backoff time.Duration) Option {
	return func(g *Gateway) { g.options.RetryBackoff = backoff }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a Gateway for entity. The binding must bind the primary key.
func New(reg *registry.Registry, entity *registry.EntityDef, client Client, binding Binding, opts ...Option) (*Gateway, error) {
	if _, ok := binding.Primary(); !ok {
		return nil, fmt.Errorf("%w: %s has no %s binding", storeerrors.ErrNoIndexMap, entity.Name, registry.PrimaryKey)
	}
	if binding.TableName == "" {
		return nil, storeerrors.NewValidationError("TableName", "required")
	}
	g := &Gateway{
		reg:     reg,
		entity:  entity,
		client:  client,
		binding: binding,
		options: DefaultOptions(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Entity returns the entity the gateway stores.
func (g *Gateway) Entity() *registry.EntityDef { return g.entity }

func (g *Gateway) keyBinding(keyName string) (KeyBinding, error) {
	kb, ok := g.binding.Keys[keyName]
	if !ok {
		return KeyBinding{}, fmt.Errorf("%w: %s key %q", storeerrors.ErrNoIndexMap, g.entity.Name, keyName)
	}
	return kb, nil
}

// ReadByKey queries the table or index bound to keyName with an equality
// condition on every bound attribute. A unique key returns at most one
// instance; no match returns nil.
func (g *Gateway) ReadByKey(ctx context.Context, keyName string, key *registry.KeyValue) ([]*registry.Instance, error) {
	kb, err := g.keyBinding(keyName)
	if err != nil {
		return nil, err
	}
	attrs, err := keyAttributes(kb.Attributes, key.Values)
	if err != nil {
		return nil, fmt.Errorf("%s key %q: %w", g.entity.Name, keyName, err)
	}

	input := buildQuery(g.binding.TableName, kb.IndexName, attrs, g.entity.Name)
	if g.options.PageSize > 0 {
		input.Limit = &g.options.PageSize
	}

	var results []*registry.Instance
	err = g.query(ctx, input, func(item map[string]types.AttributeValue) (bool, error) {
		inst, err := g.decode(item)
		if err != nil {
			return false, err
		}
		inst.Key = key.Key
		results = append(results, inst)
		return !key.Unique(), nil
	})
	if err != nil {
		return nil, err
	}
	g.log.Debug("dynamodb read",
		zap.String("entity", g.entity.Name),
		zap.String("key", keyName),
		zap.String("index", kb.IndexName),
		zap.Int("items", len(results)))
	return results, nil
}

// Write stores inst with its expanded key attributes. Keys whose attributes
// expand to empty values are left out, leaving the item off that index.
func (g *Gateway) Write(ctx context.Context, inst *registry.Instance) (int, error) {
	av, err := attributevalue.MarshalMap(inst.Values)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal %s: %w", g.entity.Name, err)
	}

	primary, _ := g.binding.Primary()
	key, err := keyAttributes(primary.Attributes, inst.Values)
	if err != nil {
		return 0, fmt.Errorf("%s primary key: %w", g.entity.Name, err)
	}
	for k, v := range key {
		av[k] = v
	}
	for name, kb := range g.binding.Keys {
		if name == registry.PrimaryKey {
			continue
		}
		expanded, err := expandMacros(kb.Attributes, inst.Values)
		if err != nil {
			return 0, err
		}
		for k, v := range expanded {
			if v != "" {
				av[k] = &types.AttributeValueMemberS{Value: v}
			}
		}
	}
	av[EntityTypeAttribute] = &types.AttributeValueMemberS{Value: g.entity.Name}

	_, err = g.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &g.binding.TableName,
		Item:      av,
	})
	if err != nil {
		return 0, fmt.Errorf("PutItem failed: %w", err)
	}
	return 1, nil
}

// Delete removes the item addressed by the primary key of inst and reports
// whether one existed.
func (g *Gateway) Delete(ctx context.Context, inst *registry.Instance) (int, error) {
	primary, _ := g.binding.Primary()
	key, err := keyAttributes(primary.Attributes, inst.Values)
	if err != nil {
		return 0, fmt.Errorf("%s primary key: %w", g.entity.Name, err)
	}

	out, err := g.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:    &g.binding.TableName,
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return 0, fmt.Errorf("delete condition failed: %w", err)
		}
		return 0, fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	if len(out.Attributes) == 0 {
		return 0, nil
	}
	return 1, nil
}
