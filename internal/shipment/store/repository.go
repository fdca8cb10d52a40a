// Package store adapts the document store to import shipments.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clearance/internal/shipment/models"
	"clearance/pkg/platform/docstore"
)

// Table is the Postgres table holding import shipment documents.
const Table = "import_shipments"

const cachePrefix = "clearance:import:"

// Repository keeps import shipments as whole documents.
type Repository struct {
	docs docstore.Store[models.Shipment]
}

func New(docs docstore.Store[models.Shipment]) (*Repository, error) {
	if docs == nil {
		return nil, fmt.Errorf("document store is required")
	}
	return &Repository{docs: docs}, nil
}

// NewMemory is a process-local repository.
func NewMemory() *Repository {
	return &Repository{docs: docstore.NewMemory[models.Shipment]()}
}

// NewPostgres binds to Table and creates it when missing.
func NewPostgres(ctx context.Context, db *sql.DB) (*Repository, *docstore.Postgres[models.Shipment], error) {
	pg, err := docstore.NewPostgres[models.Shipment](db, Table)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, nil, err
	}
	return &Repository{docs: pg}, pg, nil
}

// WithCache returns a repository reading through Redis in front of r.
func (r *Repository) WithCache(client redis.Cmdable, ttl time.Duration, opts ...docstore.CacheOption[models.Shipment]) (*Repository, error) {
	cache, err := docstore.NewCache(r.docs, client, cachePrefix, ttl, opts...)
	if err != nil {
		return nil, err
	}
	return &Repository{docs: cache}, nil
}

func (r *Repository) Save(ctx context.Context, s models.Shipment) error {
	if s.ID.IsZero() {
		return fmt.Errorf("save shipment: id is required")
	}
	if err := r.docs.Save(ctx, s.ID.String(), s); err != nil {
		return fmt.Errorf("save shipment %s: %w", s.ID, err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id models.ShipmentID) (models.Shipment, error) {
	s, err := r.docs.Find(ctx, id.String())
	if err != nil {
		return models.Shipment{}, fmt.Errorf("find shipment %s: %w", id, err)
	}
	return s, nil
}

// FindMany returns the shipments that exist among ids.
func (r *Repository) FindMany(ctx context.Context, ids []models.ShipmentID) (map[models.ShipmentID]models.Shipment, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	docs, err := r.docs.FindMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("find shipments: %w", err)
	}
	out := make(map[models.ShipmentID]models.Shipment, len(docs))
	for _, s := range docs {
		out[s.ID] = s
	}
	return out, nil
}
