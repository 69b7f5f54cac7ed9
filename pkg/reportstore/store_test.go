// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package reportstore_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmcheck/pkg/reportstore"
)

func openStore(t *testing.T, cap int, clock clockwork.Clock) *reportstore.Store {
	t.Helper()
	store, err := reportstore.Open(filepath.Join(t.TempDir(), "runs.db"), cap, clock, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndListRecent(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := openStore(t, 100, clock)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, reportstore.Run{
		ID: "run-1", Source: "recipe.yml", OK: true,
	}))
	clock.Advance(time.Minute)
	require.NoError(t, store.Insert(ctx, reportstore.Run{
		ID: "run-2", Source: "bad.yml", OK: false, ErrorCount: 3, Errors: "TYPE MISMATCH",
	}))

	runs, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	require.Equal(t, "run-2", runs[0].ID, "newest first")
	require.False(t, runs[0].OK)
	require.Equal(t, 3, runs[0].ErrorCount)
	require.Equal(t, "TYPE MISMATCH", runs[0].Errors)

	require.Equal(t, "run-1", runs[1].ID)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), runs[1].CreatedAt)
}

func TestInsertPrunesBeyondCap(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := openStore(t, 3, clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Insert(ctx, reportstore.Run{
			ID: fmt.Sprintf("run-%d", i), Source: "recipe.yml", OK: true,
		}))
		clock.Advance(time.Second)
	}

	runs, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.Equal(t, "run-4", runs[0].ID)
	require.Equal(t, "run-2", runs[2].ID)
}

func TestListRecentLimit(t *testing.T) {
	store := openStore(t, 0, nil)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, store.Insert(ctx, reportstore.Run{ID: fmt.Sprintf("run-%d", i)}))
	}

	runs, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
}
