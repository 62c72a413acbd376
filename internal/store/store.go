package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/pkg/errors"

	// Postgres driver for shared deployments.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	kvTable      = "kv_entries"
	colName      = "name"
	colValue     = "value"
	colUpdatedAt = "updated_at"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a KV backed by a SQL database. Rows live in a single table keyed
// by name; statements are built with the ent SQL builder so the same code
// serves SQLite and Postgres.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
}

var _ KV = (*Store)(nil)

// Open connects to the database at dsn using driver ("sqlite" or
// "postgres"), applies SQLite pragmas when relevant, and creates the KV table.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var dia string
	switch driver {
	case DriverSQLite, "":
		driver, dia = DriverSQLite, dialect.SQLite
	case DriverPostgres:
		dia = dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dia == dialect.SQLite {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	s := &Store{db: db, drv: entsql.OpenDB(dia, db), dialect: dia}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// createKVTable is valid in both SQLite and Postgres.
const createKVTable = `CREATE TABLE IF NOT EXISTS ` + kvTable + ` (
	` + colName + ` varchar(255) NOT NULL PRIMARY KEY,
	` + colValue + ` text NOT NULL,
	` + colUpdatedAt + ` bigint NOT NULL
)`

func (s *Store) migrate(ctx context.Context) error {
	if err := s.drv.Exec(ctx, createKVTable, []any{}, nil); err != nil {
		return errors.Wrap(err, "create kv table")
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query, args := entsql.Dialect(s.dialect).
		Select(colValue).
		From(entsql.Table(kvTable)).
		Where(entsql.EQ(colName, key)).
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, errors.Wrapf(err, "query key %q", key)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrapf(err, "read key %q", key)
		}
		return nil, ErrNotFound
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return nil, errors.Wrapf(err, "scan key %q", key)
	}
	return []byte(value), nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query, args := entsql.Dialect(s.dialect).
		Insert(kvTable).
		Columns(colName, colValue, colUpdatedAt).
		Values(key, string(value), time.Now().Unix()).
		OnConflict(
			entsql.ConflictColumns(colName),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return errors.Wrapf(err, "set key %q", key)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(s.dialect).
		Delete(kvTable).
		Where(entsql.EQ(colName, key)).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return errors.Wrapf(err, "delete key %q", key)
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CADENCE_DB environment variable
// 2. $XDG_DATA_HOME/cadence/cadence.db
// 3. ~/.local/share/cadence/cadence.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CADENCE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "cadence", "cadence.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
