// Package store adapts the document store to export files.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clearance/internal/export/models"
	"clearance/pkg/platform/docstore"
)

// Table is the Postgres table holding export documents.
const Table = "export_files"

const cachePrefix = "clearance:export:"

type Repository struct {
	docs docstore.Store[models.Export]
}

func New(docs docstore.Store[models.Export]) (*Repository, error) {
	if docs == nil {
		return nil, fmt.Errorf("document store is required")
	}
	return &Repository{docs: docs}, nil
}

func NewMemory() *Repository {
	return &Repository{docs: docstore.NewMemory[models.Export]()}
}

// NewPostgres binds to Table and creates it when missing.
func NewPostgres(ctx context.Context, db *sql.DB) (*Repository, error) {
	pg, err := docstore.NewPostgres[models.Export](db, Table)
	if err != nil {
		return nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return &Repository{docs: pg}, nil
}

// WithCache returns a repository reading through Redis in front of r.
func (r *Repository) WithCache(client redis.Cmdable, ttl time.Duration, opts ...docstore.CacheOption[models.Export]) (*Repository, error) {
	cache, err := docstore.NewCache(r.docs, client, cachePrefix, ttl, opts...)
	if err != nil {
		return nil, err
	}
	return &Repository{docs: cache}, nil
}

func (r *Repository) Save(ctx context.Context, e models.Export) error {
	if e.ID.IsZero() {
		return fmt.Errorf("save export: id is required")
	}
	if err := r.docs.Save(ctx, e.ID.String(), e); err != nil {
		return fmt.Errorf("save export %s: %w", e.ID, err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id models.ExportID) (models.Export, error) {
	e, err := r.docs.Find(ctx, id.String())
	if err != nil {
		return models.Export{}, fmt.Errorf("find export %s: %w", id, err)
	}
	return e, nil
}
