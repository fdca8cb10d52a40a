package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"clearance/internal/shipment/models"
	"clearance/internal/shipment/service/mocks"
	"clearance/internal/shipment/shipmenttest"
	shipmentstore "clearance/internal/shipment/store"
	"clearance/pkg/platform/sentinel"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSessions_RequiresRepository(t *testing.T) {
	_, err := NewSessions(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository is required")
}

func TestSessions_CreateAndReopen(t *testing.T) {
	ctx := context.Background()
	repo := shipmentstore.NewMemory()
	sessions, err := NewSessions(repo, quietLogger(), WithDebounce(0))
	require.NoError(t, err)

	created, err := sessions.Create(ctx, "IMP-24-0042", "Acme Foods Nigeria")
	require.NoError(t, err)
	id := created.ID()

	_, decision, err := created.Apply(ctx, models.OriginSaved(*shipmenttest.Origin()))
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	same, err := sessions.Open(ctx, id)
	require.NoError(t, err)
	assert.Same(t, created, same, "one store per shipment")

	sessions.Release(id)
	assert.Zero(t, sessions.Len())

	reopened, err := sessions.Open(ctx, id)
	require.NoError(t, err)
	assert.NotSame(t, created, reopened)
	assert.Equal(t, models.StatePreArrival, reopened.Current().State, "hydrated from the repository")
}

func TestSessions_OpenUnknown(t *testing.T) {
	sessions, err := NewSessions(shipmentstore.NewMemory(), quietLogger())
	require.NoError(t, err)

	_, err = sessions.Open(context.Background(), models.NewShipmentID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestSessions_OpenManyUsesOneRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	a := shipmenttest.AtState(models.StateCustoms)
	b := shipmenttest.AtState(models.StateTransport)
	unknown := models.NewShipmentID()

	repo.EXPECT().
		FindMany(gomock.Any(), []models.ShipmentID{a.ID, b.ID, unknown}).
		Return(map[models.ShipmentID]models.Shipment{a.ID: a, b.ID: b}, nil).
		Times(1)

	sessions, err := NewSessions(repo, quietLogger())
	require.NoError(t, err)

	stores, err := sessions.OpenMany(context.Background(), []models.ShipmentID{a.ID, b.ID, unknown})
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, models.StateCustoms, stores[0].Current().State)
	assert.Equal(t, models.StateTransport, stores[1].Current().State)

	again, err := sessions.OpenMany(context.Background(), []models.ShipmentID{a.ID})
	require.NoError(t, err)
	assert.Same(t, stores[0], again[0])
}

func TestSessions_RefreshAllJoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	s := shipmenttest.AtState(models.StateTransport)
	clock := &fakeClock{t: today}

	repo.EXPECT().FindByID(gomock.Any(), s.ID).Return(s, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	sessions, err := NewSessions(repo, quietLogger(), WithClock(clock.Now))
	require.NoError(t, err)
	_, err = sessions.Open(context.Background(), s.ID)
	require.NoError(t, err)

	require.NoError(t, sessions.RefreshAll(context.Background()), "nothing moved yet")

	clock.Set(time.Date(2024, time.February, 20, 9, 0, 0, 0, time.UTC))
	err = sessions.RefreshAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) RefreshAll(context.Context) error {
	c.calls.Add(1)
	return errors.New("ignored")
}

func TestSweeper(t *testing.T) {
	t.Run("rejects bad configuration", func(t *testing.T) {
		_, err := NewSweeper(nil, time.Second, nil)
		assert.Error(t, err)
		_, err = NewSweeper(&countingRefresher{}, 0, nil)
		assert.Error(t, err)
	})

	t.Run("refreshes until cancelled", func(t *testing.T) {
		target := &countingRefresher{}
		w, err := NewSweeper(target, 5*time.Millisecond, quietLogger())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()

		require.Eventually(t, func() bool { return target.calls.Load() >= 2 }, time.Second, time.Millisecond)
		cancel()
		assert.NoError(t, <-done)
	})
}
