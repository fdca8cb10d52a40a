// Package docstore persists aggregates as JSON documents keyed by string ID.
//
// Three adapters share the Store interface:
//   - Memory keeps encoded documents in a map (tests, single-process runs)
//   - Postgres keeps them in a JSONB table
//   - Cache puts a Redis read-through layer in front of any other Store
//
// Every adapter round-trips through encoding/json so a document read back
// from memory behaves exactly like one read back from Postgres.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is the persistence contract for one document type.
type Store[T any] interface {
	Save(ctx context.Context, id string, doc T) error
	// Find returns sentinel.ErrNotFound (wrapped) when id is unknown.
	Find(ctx context.Context, id string) (T, error)
	// FindMany returns the documents that exist; unknown ids are omitted.
	FindMany(ctx context.Context, ids []string) (map[string]T, error)
}

func encode[T any](doc T) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}

func decode[T any](raw []byte) (T, error) {
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
