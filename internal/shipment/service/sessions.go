package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"clearance/internal/shipment/models"
)

// Sessions keeps one ShipmentStore per open shipment, so every editor of a
// shipment in this process works on the same aggregate.
type Sessions struct {
	repo   Repository
	opts   []Option
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	stores map[models.ShipmentID]*ShipmentStore
}

// NewSessions builds a registry. opts are applied to every store it opens;
// the repository is always attached.
func NewSessions(repo Repository, logger *slog.Logger, opts ...Option) (*Sessions, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		repo:   repo,
		opts:   append(append([]Option{}, opts...), WithRepository(repo), WithLogger(logger)),
		logger: logger,
		now:    time.Now,
		stores: make(map[models.ShipmentID]*ShipmentStore),
	}, nil
}

// Create starts a new shipment, saves it and opens its store.
func (r *Sessions) Create(ctx context.Context, fileNumber, clientName string) (*ShipmentStore, error) {
	store, err := NewShipmentStore(models.NewShipment(fileNumber, clientName, r.now()), r.opts...)
	if err != nil {
		return nil, err
	}
	if err := r.repo.Save(ctx, store.Current().Shipment); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	r.mu.Lock()
	r.stores[store.ID()] = store
	r.mu.Unlock()
	r.logger.InfoContext(ctx, "shipment created", "shipment_id", store.ID(), "file_number", fileNumber)
	return store, nil
}

// Open returns the store for id, hydrating it from the repository on first
// use. A missing shipment surfaces sentinel.ErrNotFound.
func (r *Sessions) Open(ctx context.Context, id models.ShipmentID) (*ShipmentStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[id]; ok {
		return store, nil
	}

	shipment, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open shipment: %w", err)
	}
	store, err := NewShipmentStore(shipment, r.opts...)
	if err != nil {
		return nil, fmt.Errorf("open shipment %s: %w", id, err)
	}
	r.stores[id] = store
	return store, nil
}

// OpenMany hydrates every id not yet open with one repository round trip.
// Unknown ids are skipped.
func (r *Sessions) OpenMany(ctx context.Context, ids []models.ShipmentID) ([]*ShipmentStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var missing []models.ShipmentID
	for _, id := range ids {
		if _, ok := r.stores[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		found, err := r.repo.FindMany(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("open shipments: %w", err)
		}
		for id, shipment := range found {
			store, err := NewShipmentStore(shipment, r.opts...)
			if err != nil {
				return nil, fmt.Errorf("open shipment %s: %w", id, err)
			}
			r.stores[id] = store
		}
	}

	out := make([]*ShipmentStore, 0, len(ids))
	for _, id := range ids {
		if store, ok := r.stores[id]; ok {
			out = append(out, store)
		}
	}
	return out, nil
}

// Release flushes and closes the store for id.
func (r *Sessions) Release(id models.ShipmentID) {
	r.mu.Lock()
	store, ok := r.stores[id]
	delete(r.stores, id)
	r.mu.Unlock()
	if ok {
		store.Close()
	}
}

// Len reports the number of open stores.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// RefreshAll re-derives every open shipment against the clock.
func (r *Sessions) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, store := range r.snapshotStores() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := store.Refresh(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseAll flushes and closes every open store.
func (r *Sessions) CloseAll() {
	r.mu.Lock()
	stores := r.stores
	r.stores = make(map[models.ShipmentID]*ShipmentStore)
	r.mu.Unlock()
	for _, store := range stores {
		store.Close()
	}
}

func (r *Sessions) snapshotStores() []*ShipmentStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ShipmentStore, 0, len(r.stores))
	for _, store := range r.stores {
		out = append(out, store)
	}
	return out
}
