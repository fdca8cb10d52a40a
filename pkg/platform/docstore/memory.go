package docstore

import (
	"context"
	"fmt"
	"sync"

	"clearance/pkg/platform/sentinel"
)

// Memory is an in-process Store.
type Memory[T any] struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{docs: make(map[string][]byte)}
}

func (m *Memory[T]) Save(_ context.Context, id string, doc T) error {
	raw, err := encode(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = raw
	return nil
}

func (m *Memory[T]) Find(_ context.Context, id string) (T, error) {
	m.mu.RLock()
	raw, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("document %s: %w", id, sentinel.ErrNotFound)
	}
	return decode[T](raw)
}

func (m *Memory[T]) FindMany(ctx context.Context, ids []string) (map[string]T, error) {
	out := make(map[string]T, len(ids))
	for _, id := range ids {
		doc, err := m.Find(ctx, id)
		if err != nil {
			continue
		}
		out[id] = doc
	}
	return out, nil
}

// Len reports the number of stored documents.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
