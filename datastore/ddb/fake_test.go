/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"strconv"
	"strings"
	"sync"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory table answering equality queries
type fakeClient struct {
	mu        sync.Mutex
	items     []map[string]types.AttributeValue
	queries   []*sdk.QueryInput
	queryErrs []error
	putErr    error
}

func (f *fakeClient) Query(ctx context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *in
	f.queries = append(f.queries, &cp)
	if len(f.queryErrs) > 0 {
		err := f.queryErrs[0]
		f.queryErrs = f.queryErrs[1:]
		return nil, err
	}

	var matched []map[string]types.AttributeValue
	for _, item := range f.items {
		if f.matches(item, in) {
			matched = append(matched, item)
		}
	}

	start := 0
	if pos, ok := in.ExclusiveStartKey["pos"].(*types.AttributeValueMemberN); ok {
		start, _ = strconv.Atoi(pos.Value)
	}
	end := len(matched)
	if in.Limit != nil && start+int(*in.Limit) < end {
		end = start + int(*in.Limit)
	}
	out := &sdk.QueryOutput{Items: matched[start:end]}
	if end < len(matched) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"pos": &types.AttributeValueMemberN{Value: strconv.Itoa(end)},
		}
	}
	return out, nil
}

func (f *fakeClient) matches(item map[string]types.AttributeValue, in *sdk.QueryInput) bool {
	for placeholder, attr := range in.ExpressionAttributeNames {
		want := in.ExpressionAttributeValues[strings.Replace(placeholder, "#", ":", 1)]
		if !sameString(item[attr], want) {
			return false
		}
	}
	return true
}

func (f *fakeClient) PutItem(ctx context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if sameString(item["PK"], in.Item["PK"]) && sameString(item["SK"], in.Item["SK"]) {
			f.items[i] = in.Item
			return &sdk.PutItemOutput{}, nil
		}
	}
	f.items = append(f.items, in.Item)
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		hit := true
		for k, v := range in.Key {
			if !sameString(item[k], v) {
				hit = false
				break
			}
		}
		if hit {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return &sdk.DeleteItemOutput{Attributes: item}, nil
		}
	}
	return &sdk.DeleteItemOutput{}, nil
}

func sameString(a, b types.AttributeValue) bool {
	as, ok := a.(*types.AttributeValueMemberS)
	if !ok {
		return false
	}
	bs, ok := b.(*types.AttributeValueMemberS)
	return ok && as.Value == bs.Value
}
