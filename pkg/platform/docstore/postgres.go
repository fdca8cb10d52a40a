package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"clearance/pkg/platform/sentinel"
)

// Postgres stores documents in a table shaped as
// (id TEXT PRIMARY KEY, document JSONB, updated_at TIMESTAMPTZ).
type Postgres[T any] struct {
	db    *sql.DB
	table string
}

// NewPostgres binds a Store to table. The name is interpolated into SQL, so
// only lower-case identifiers are accepted.
func NewPostgres[T any](db *sql.DB, table string) (*Postgres[T], error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if !validIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Postgres[T]{db: db, table: table}, nil
}

// EnsureSchema creates the table when it does not exist.
func (p *Postgres[T]) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         TEXT PRIMARY KEY,
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, p.table)
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure %s schema: %w", p.table, err)
	}
	return nil
}

func (p *Postgres[T]) Save(ctx context.Context, id string, doc T) error {
	raw, err := encode(doc)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`, p.table)
	if _, err := p.db.ExecContext(ctx, query, id, raw); err != nil {
		return fmt.Errorf("save document %s: %w", id, err)
	}
	return nil
}

func (p *Postgres[T]) Find(ctx context.Context, id string) (T, error) {
	var zero T
	var raw []byte
	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = $1`, p.table)
	err := p.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("document %s: %w", id, sentinel.ErrNotFound)
		}
		return zero, fmt.Errorf("find document %s: %w", id, err)
	}
	return decode[T](raw)
}

func (p *Postgres[T]) FindMany(ctx context.Context, ids []string) (map[string]T, error) {
	out := make(map[string]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(`SELECT id, document FROM %s WHERE id = ANY($1)`, p.table)
	rows, err := p.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc, err := decode[T](raw)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		out[id] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func validIdentifier(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
