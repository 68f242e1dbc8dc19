// Package cache persists per-file extraction results in SQLite so unchanged
// files are not re-parsed.
package cache

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/arjunmahishi/luaudoc/luaudoc"
	"github.com/arjunmahishi/luaudoc/types"
)

// payloadSchema is bumped whenever the stored payload changes shape.
const payloadSchema uint16 = 1

// ErrNotFound is returned when no entry exists for a key. It matches
// luaudoc.ErrCacheMiss.
var ErrNotFound = fmt.Errorf("cache: entry not found: %w", luaudoc.ErrCacheMiss)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS extractions (
	path              TEXT    NOT NULL,
	source_hash       TEXT    NOT NULL,
	generator_version TEXT    NOT NULL,
	payload_schema    INTEGER NOT NULL,
	payload           BLOB    NOT NULL,
	updated_at        INTEGER NOT NULL,
	PRIMARY KEY (path, source_hash, generator_version)
)`

// Store is a luaudoc.Cache backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ luaudoc.Cache = (*Store)(nil)

type payload struct {
	Schema      uint16             `json:"schema"`
	Symbols     []types.Symbol     `json:"symbols"`
	Diagnostics []types.Diagnostic `json:"diagnostics"`
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Workers share one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// Open opens or creates the cache database at path. ":memory:" gives a
// cache that lives as long as the Store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := openDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored result for key, or ErrNotFound. Entries written
// with an older payload schema count as missing.
func (s *Store) Get(ctx context.Context, key luaudoc.CacheKey) (*luaudoc.FileResult, error) {
	var (
		schema int
		blob   []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload_schema, payload FROM extractions
		 WHERE path = ? AND source_hash = ? AND generator_version = ?`,
		key.Path, key.SourceHash, key.GeneratorVersion,
	).Scan(&schema, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	if schema != int(payloadSchema) {
		return nil, ErrNotFound
	}

	p, err := decode(blob)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key.Path, err)
	}
	return &luaudoc.FileResult{Symbols: p.Symbols, Diagnostics: p.Diagnostics}, nil
}

// Put stores result under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key luaudoc.CacheKey, result *luaudoc.FileResult) error {
	blob, err := encode(&payload{
		Schema:      payloadSchema,
		Symbols:     result.Symbols,
		Diagnostics: result.Diagnostics,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key.Path, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extractions (path, source_hash, generator_version, payload_schema, payload, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (path, source_hash, generator_version) DO UPDATE SET
		 	payload_schema = excluded.payload_schema,
		 	payload = excluded.payload,
		 	updated_at = excluded.updated_at`,
		key.Path, key.SourceHash, key.GeneratorVersion, int(payloadSchema), blob, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Prune drops entries written by any other generator version and returns
// how many were removed.
func (s *Store) Prune(ctx context.Context, generatorVersion string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM extractions WHERE generator_version <> ?`, generatorVersion)
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}

func encode(p *payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(blob []byte) (*payload, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(blob))
	dec.SetCustomStructTag("json")
	var p payload
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
