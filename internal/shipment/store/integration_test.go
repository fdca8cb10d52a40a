//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearance/internal/shipment/lifecycle"
	"clearance/internal/shipment/models"
	"clearance/internal/shipment/shipmenttest"
	"clearance/pkg/testutil/containers"
)

func TestPostgresRepository_StateSurvivesRoundTrip(t *testing.T) {
	ctx := context.Background()
	pg := containers.NewPostgres(t)

	repo, _, err := NewPostgres(ctx, pg.DB)
	require.NoError(t, err)

	for _, state := range shipmenttest.DerivableStates {
		t.Run(string(state), func(t *testing.T) {
			s := shipmenttest.AtState(state)
			require.NoError(t, repo.Save(ctx, s))

			got, err := repo.FindByID(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, state, lifecycle.DetailedLifecycleState(got))
		})
	}
}

func TestCachedRepository_ReadsThroughRedis(t *testing.T) {
	ctx := context.Background()
	pg := containers.NewPostgres(t)
	rc := containers.NewRedis(t)

	base, _, err := NewPostgres(ctx, pg.DB)
	require.NoError(t, err)
	cached, err := base.WithCache(rc.Client, time.Minute)
	require.NoError(t, err)

	s := shipmenttest.AtState(models.StateCompliance)
	require.NoError(t, cached.Save(ctx, s))

	keys, err := rc.Client.Keys(ctx, cachePrefix+"*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	got, err := cached.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateCompliance, lifecycle.DetailedLifecycleState(got))
}
