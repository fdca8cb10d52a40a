//go:build integration

package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearance/pkg/platform/sentinel"
	"clearance/pkg/testutil/containers"
)

func TestPostgres_RoundTrip(t *testing.T) {
	ctx := context.Background()
	pg := containers.NewPostgres(t)

	store, err := NewPostgres[doc](pg.DB, "documents")
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))

	require.NoError(t, store.Save(ctx, "1", doc{Name: "a", Items: []string{"x"}}))
	require.NoError(t, store.Save(ctx, "1", doc{Name: "a2"}))
	require.NoError(t, store.Save(ctx, "2", doc{Name: "b"}))

	got, err := store.Find(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Name, "upsert replaces the document")

	_, err = store.Find(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	many, err := store.FindMany(ctx, []string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Len(t, many, 2)
}

func TestCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedis(t)

	backing := NewMemory[doc]()
	require.NoError(t, backing.Save(ctx, "1", doc{Name: "from-backing"}))

	cache, err := NewCache[doc](backing, rc.Client, "test:", time.Minute)
	require.NoError(t, err)

	got, err := cache.Find(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "from-backing", got.Name)

	exists, err := rc.Client.Exists(ctx, "test:1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "miss populates the cache")

	require.NoError(t, cache.Save(ctx, "2", doc{Name: "written"}))
	many, err := cache.FindMany(ctx, []string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Len(t, many, 2)

	require.NoError(t, cache.Invalidate(ctx, "1"))
	exists, err = rc.Client.Exists(ctx, "test:1").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
