/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandMacros fills every template of attrs with the matching entries of
// values. Macros without a value expand to the empty string.
func expandMacros(attrs map[string]string, values map[string]any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key values: %w", err)
	}

	res := make(map[string]string, len(attrs))
	for name, template := range attrs {
		res[name] = macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			val, ok := av[strings.Trim(macro, "{}")]
			if !ok {
				return ""
			}
			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				// NULL, binary and sets have no key form
				return ""
			}
		})
	}
	return res, nil
}

// keyAttributes expands attrs into string attribute values
func keyAttributes(attrs map[string]string, values map[string]any) (map[string]types.AttributeValue, error) {
	expanded, err := expandMacros(attrs, values)
	if err != nil {
		return nil, err
	}
	key := make(map[string]types.AttributeValue, len(expanded))
	for k, v := range expanded {
		if v == "" {
			return nil, fmt.Errorf("key attribute %q expands to an empty value", k)
		}
		key[k] = &types.AttributeValueMemberS{Value: v}
	}
	return key, nil
}
