/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"testing"
)

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var gw Gateway = Noop{}

	insts, err := gw.ReadByKey(ctx, "primary", nil)
	if err != nil || insts != nil {
		t.Fatalf("expected nil read, got %v, %v", insts, err)
	}

	n, err := gw.Write(ctx, nil)
	if err != nil || n != 0 {
		t.Fatalf("expected 0 written, got %d, %v", n, err)
	}

	n, err = gw.Delete(ctx, nil)
	if err != nil || n != 0 {
		t.Fatalf("expected 0 deleted, got %d, %v", n, err)
	}
}
