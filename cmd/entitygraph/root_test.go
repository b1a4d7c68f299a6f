/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitygraph/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "../../schema/testdata/shop.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "shop/Fruit\n  primary unique: Name=\n  by-status: Status=1\n")
	assert.Contains(t, out, "  by-fruit: Fruit=\n")
	assert.Contains(t, out, "  by-price unique: Price=9.99\n")
	assert.Contains(t, out, "shop/Nutrition\n")
}

func TestCheckUnresolvableKey(t *testing.T) {
	doc := "scalars:\n  - {name: shop/Name, exemplar: \"\"}\n" +
		"entities:\n  - name: shop/Supplier\n    fields: [{name: Name, type: shop/Name}]\n" +
		"    primary: [Name]\n    keys:\n      by-fruit: {fields: [{field: shop/Fruit.Name}]}\n"
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := run(t, "check", path)
	assert.ErrorIs(t, err, errors.ErrUnresolvableKeyField)
}

func TestCheckArgs(t *testing.T) {
	_, err := run(t, "check")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "entitygraph version ")
}
