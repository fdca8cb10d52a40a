package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"clearance/internal/export/models"
)

// Files keeps one ExportStore per open export file.
type Files struct {
	repo   Repository
	opts   []Option
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	stores map[models.ExportID]*ExportStore
}

func NewFiles(repo Repository, logger *slog.Logger, opts ...Option) (*Files, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Files{
		repo:   repo,
		opts:   append(append([]Option{}, opts...), WithRepository(repo), WithLogger(logger)),
		logger: logger,
		now:    time.Now,
		stores: make(map[models.ExportID]*ExportStore),
	}, nil
}

// Create starts a new export file, saves it and opens its store.
func (f *Files) Create(ctx context.Context, fileNumber, clientName string) (*ExportStore, error) {
	store, err := NewExportStore(models.NewExport(fileNumber, clientName, f.now()), f.opts...)
	if err != nil {
		return nil, err
	}
	if err := f.repo.Save(ctx, store.Current().Export); err != nil {
		return nil, fmt.Errorf("create export: %w", err)
	}

	f.mu.Lock()
	f.stores[store.ID()] = store
	f.mu.Unlock()
	f.logger.InfoContext(ctx, "export created", "export_id", store.ID(), "file_number", fileNumber)
	return store, nil
}

// Open returns the store for id, hydrating it on first use.
func (f *Files) Open(ctx context.Context, id models.ExportID) (*ExportStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if store, ok := f.stores[id]; ok {
		return store, nil
	}
	e, err := f.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	store, err := NewExportStore(e, f.opts...)
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", id, err)
	}
	f.stores[id] = store
	return store, nil
}

func (f *Files) Release(id models.ExportID) {
	f.mu.Lock()
	store, ok := f.stores[id]
	delete(f.stores, id)
	f.mu.Unlock()
	if ok {
		store.Close()
	}
}

func (f *Files) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stores)
}

// CloseAll flushes and closes every open store.
func (f *Files) CloseAll() {
	f.mu.Lock()
	stores := f.stores
	f.stores = make(map[models.ExportID]*ExportStore)
	f.mu.Unlock()
	for _, store := range stores {
		store.Close()
	}
}
