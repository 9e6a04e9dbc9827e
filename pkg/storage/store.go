// Package storage persists conversion history records in a local SQLite
// database. The service stays fully functional without it; callers treat
// store errors as log-only.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// Conversion is one recorded conversion run.
type Conversion struct {
	bun.BaseModel `bun:"table:conversions"`

	ID         string    `bun:"id,pk" json:"id"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
	NodesFile  string    `bun:"nodes_file" json:"nodes_file"`
	LinksFile  string    `bun:"links_file" json:"links_file"`
	Junctions  int       `bun:"junctions" json:"junctions"`
	Pipes      int       `bun:"pipes" json:"pipes"`
	DurationMS int64     `bun:"duration_ms" json:"duration_ms"`
	Status     string    `bun:"status" json:"status"`
	Error      string    `bun:"error" json:"error,omitempty"`
}

// Store wraps the bun handle for the history database.
type Store struct {
	db *bun.DB
}

// Open opens (or creates) the history database at the given path and makes
// sure the schema exists.
func Open(ctx context.Context, path string, hooks ...bun.QueryHook) (*Store, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open history database %s", path)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	for _, hook := range hooks {
		db.AddQueryHook(hook)
	}

	_, err = db.NewCreateTable().
		Model((*Conversion)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to create history schema")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a conversion record.
func (s *Store) Record(ctx context.Context, c *Conversion) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NewInsert().Model(c).Exec(ctx)
	if err != nil {
		return eris.Wrap(err, "failed to record conversion")
	}
	return nil
}

// Recent returns the most recent conversion records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Conversion, error) {
	var records []Conversion
	err := s.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query conversion history")
	}
	return records, nil
}
