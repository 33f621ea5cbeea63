// Package sqlitestore persists committed values in a local SQLite database,
// one row per (schema id, key, path), with values serialized in the variant
// text notation alongside their type signature.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-vartree/pkg/store"
	"github.com/goliatone/go-vartree/pkg/variant"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	schema_id TEXT NOT NULL,
	key       TEXT NOT NULL,
	path      TEXT NOT NULL DEFAULT '',
	type      TEXT NOT NULL,
	value     TEXT NOT NULL,
	PRIMARY KEY (schema_id, key, path)
);
CREATE TABLE IF NOT EXISTS locks (
	schema_id TEXT NOT NULL,
	key       TEXT NOT NULL,
	PRIMARY KEY (schema_id, key)
);
`

// Option customises the store before first use.
type Option func(*Store)

// WithLogger injects a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store implements store.Store on modernc.org/sqlite.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// Open creates or opens the database at path and ensures the schema exists.
func Open(path string, options ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	s := &Store{db: db, logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: ensure schema: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value for ref, decoded against ref.Sig.
func (s *Store) Get(ctx context.Context, ref store.Ref) (*variant.Value, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE schema_id = ? AND key = ? AND path = ?`,
		ref.SchemaID, ref.Key, ref.Path,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlitestore: get %s: %w", ref, store.ErrUnset)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: get %s: %w", ref, err)
	}
	val, err := variant.ParseText(ref.Sig, text)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: decode %s: %w", ref, err)
	}
	return val, nil
}

// Set commits value for ref, refusing locked keys.
func (s *Store) Set(ctx context.Context, ref store.Ref, value *variant.Value) error {
	locked, err := s.isLocked(ctx, ref)
	if err != nil {
		return err
	}
	if locked {
		return &store.RejectedError{Ref: ref, Reason: "key is locked read-only"}
	}
	text := value.Format()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (schema_id, key, path, type, value) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (schema_id, key, path) DO UPDATE SET type = excluded.type, value = excluded.value`,
		ref.SchemaID, ref.Key, ref.Path, ref.Sig.String(), text,
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: set %s: %w", ref, err)
	}
	s.logger.Debug().Str("ref", ref.String()).Str("value", text).Msg("stored value")
	return nil
}

// Reset removes the stored value for ref.
func (s *Store) Reset(ctx context.Context, ref store.Ref) error {
	locked, err := s.isLocked(ctx, ref)
	if err != nil {
		return err
	}
	if locked {
		return &store.RejectedError{Ref: ref, Reason: "key is locked read-only"}
	}
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM settings WHERE schema_id = ? AND key = ? AND path = ?`,
		ref.SchemaID, ref.Key, ref.Path,
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: reset %s: %w", ref, err)
	}
	return nil
}

// List reports key names with stored values under a schema and path.
func (s *Store) List(ctx context.Context, schemaID, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM settings WHERE schema_id = ? AND path = ? ORDER BY key`,
		schemaID, path,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list %s: %w", schemaID, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("sqlitestore: list %s: %w", schemaID, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: list %s: %w", schemaID, err)
	}
	return keys, nil
}

// Lock marks a key read-only; subsequent writes fail with a RejectedError.
func (s *Store) Lock(ctx context.Context, schemaID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO locks (schema_id, key) VALUES (?, ?)`, schemaID, key)
	if err != nil {
		return fmt.Errorf("sqlitestore: lock %s.%s: %w", schemaID, key, err)
	}
	return nil
}

// Unlock removes a read-only mark.
func (s *Store) Unlock(ctx context.Context, schemaID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM locks WHERE schema_id = ? AND key = ?`, schemaID, key)
	if err != nil {
		return fmt.Errorf("sqlitestore: unlock %s.%s: %w", schemaID, key, err)
	}
	return nil
}

func (s *Store) isLocked(ctx context.Context, ref store.Ref) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM locks WHERE schema_id = ? AND key = ?`, ref.SchemaID, ref.Key,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlitestore: check lock %s: %w", ref, err)
	}
	return true, nil
}
