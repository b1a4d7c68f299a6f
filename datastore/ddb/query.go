/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/entitygraph/registry"
)

// buildQuery builds an equality Query over attrs, filtered to items of entity
func buildQuery(table, index string, attrs map[string]types.AttributeValue, entity string) *sdk.QueryInput {
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)

	conds := make([]string, 0, len(names))
	exprNames := make(map[string]string, len(names)+1)
	exprValues := make(map[string]types.AttributeValue, len(names)+1)
	for i, n := range names {
		nk, vk := fmt.Sprintf("#k%d", i), fmt.Sprintf(":k%d", i)
		conds = append(conds, nk+" = "+vk)
		exprNames[nk] = n
		exprValues[vk] = attrs[n]
	}
	keyCond := strings.Join(conds, " AND ")
	filter := "#et = :et"
	exprNames["#et"] = EntityTypeAttribute
	exprValues[":et"] = &types.AttributeValueMemberS{Value: entity}

	input := &sdk.QueryInput{
		TableName:                 &table,
		KeyConditionExpression:    &keyCond,
		FilterExpression:          &filter,
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
	}
	if index != "" {
		input.IndexName = &index
	}
	return input
}

// query runs input page by page, passing each item to fn until fn returns
// false or the pages run out.
func (g *Gateway) query(ctx context.Context, input *sdk.QueryInput, fn func(map[string]types.AttributeValue) (bool, error)) error {
	page := 0
	for {
		out, err := g.queryWithRetry(ctx, input)
		if err != nil {
			return err
		}
		page++
		for _, item := range out.Items {
			more, err := fn(item)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		g.log.Debug("dynamodb next page", zap.String("entity", g.entity.Name), zap.Int("page", page))
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// queryWithRetry executes a query, retrying throttling and server errors
func (g *Gateway) queryWithRetry(ctx context.Context, input *sdk.QueryInput) (*sdk.QueryOutput, error) {
	var lastErr error
	for attempt := 0; attempt <= g.options.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := g.client.Query(ctx, input)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !isRetryableError(err) {
			return nil, fmt.Errorf("query error: %w", err)
		}

		if attempt < g.options.MaxRetries {
			backoff := time.Duration(attempt+1) * g.options.RetryBackoff
			g.log.Warn("dynamodb query retry",
				zap.String("entity", g.entity.Name),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil, fmt.Errorf("query failed after %d retries: %w", g.options.MaxRetries, lastErr)
}

// decode turns an item into an instance of the gateway's entity. Table key
// attributes and EntityTypeAttribute are not fields and are dropped.
func (g *Gateway) decode(item map[string]types.AttributeValue) (*registry.Instance, error) {
	if attr, ok := item[EntityTypeAttribute]; ok {
		var entityType string
		if err := attributevalue.Unmarshal(attr, &entityType); err != nil {
			return nil, fmt.Errorf("failed to unmarshal EntityType: %w", err)
		}
		if entityType != g.entity.Name {
			return nil, fmt.Errorf("item of %q read as %s", entityType, g.entity.Name)
		}
	}
	var values map[string]any
	if err := attributevalue.UnmarshalMap(item, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return g.reg.NewInstance(g.entity, values)
}

// isRetryableError determines if a DynamoDB error is retryable. The SDK
// wraps service errors in a smithy.OperationError.
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	switch {
	case errors.As(err, &throughput), errors.As(err, &limit), errors.As(err, &internal):
		return true
	}
	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}
