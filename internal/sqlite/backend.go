// Package sqlite implements read-only access to a Songbird library database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/songbird/internal/codes"
	"github.com/mesh-intelligence/songbird/internal/logger"
	"github.com/mesh-intelligence/songbird/pkg/types"
)

// Backend implements the Library interface over a Songbird SQLite database
// opened read-only.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	timeout  time.Duration

	codes *codes.Cache
	log   *logger.Logger
}

// NewBackend creates a new backend that translates codes through cache.
// The cache is shared: it is loaded by the first backend to attach and
// reused by the others. The backend is not attached; call Attach.
func NewBackend(cache *codes.Cache, log *logger.Logger) *Backend {
	if log == nil {
		log = logger.Nop()
	}
	return &Backend{codes: cache, log: log}
}

// Attach opens the database at config.DBPath read-only, verifies that it is a
// Songbird library, and makes sure the code tables are loaded.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	if _, err := os.Stat(config.DBPath); err != nil {
		return fmt.Errorf("%w: open library: %w", types.ErrDataAccess, err)
	}

	dsn, err := readOnlyDSN(config.DBPath)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrDataAccess, err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("%w: open library: %w", types.ErrDataAccess, err)
	}

	timeout := config.GetQueryTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("%w: open library: %w", types.ErrDataAccess, err)
	}

	if err := verifySchema(ctx, db); err != nil {
		db.Close()
		return err
	}

	if err := b.codes.EnsureLoaded(ctx, codeLoader{db: db}); err != nil {
		db.Close()
		return fmt.Errorf("load code tables: %w", err)
	}

	b.db = db
	b.config = config
	b.timeout = timeout
	b.attached = true

	b.log.Info("opened library", "path", config.DBPath,
		"list_types", b.codes.ListTypes().Len(), "properties", b.codes.Properties().Len())
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.log.Info("closed library", "path", b.config.DBPath)
	return nil
}

// Codes returns the code tables shared by this backend.
func (b *Backend) Codes() types.CodeLookup {
	return b.codes
}

// handle returns the open database and the query timeout.
// Returns ErrLibraryDetached if the backend is not attached.
func (b *Backend) handle() (*sql.DB, time.Duration, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, 0, types.ErrLibraryDetached
	}
	return b.db, b.timeout, nil
}

// pass returns a logger tagged with a fresh read pass ID.
func (b *Backend) pass(op string) *logger.Logger {
	return b.log.With("op", op, "pass", newPassID())
}

// newPassID generates a UUID v7 identifying one top-level read.
func newPassID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// readOnlyDSN builds a SQLite URI that opens path read-only and rejects
// writes on every pooled connection.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	q := url.Values{}
	q.Set("mode", "ro")
	q.Add("_pragma", "query_only(1)")
	u := url.URL{Scheme: "file", Path: p, RawQuery: q.Encode()}
	return u.String(), nil
}

// codeLoader reads the code tables for codes.Cache.
type codeLoader struct {
	db *sql.DB
}

func (l codeLoader) LoadListTypes(ctx context.Context, fn func(code int, name string)) error {
	return l.load(ctx, queryListTypes, fn)
}

func (l codeLoader) LoadProperties(ctx context.Context, fn func(code int, name string)) error {
	return l.load(ctx, queryProperties, fn)
}

func (l codeLoader) load(ctx context.Context, query string, fn func(int, string)) error {
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var code int
		var name sql.NullString
		if err := rows.Scan(&code, &name); err != nil {
			return err
		}
		if !name.Valid {
			return fmt.Errorf("%w: code %d has no name", types.ErrDataAccess, code)
		}
		fn(code, name.String)
	}
	return rows.Err()
}

// wrapQueryErr marks database errors as data access failures.
func wrapQueryErr(op string, err error) error {
	if errors.Is(err, types.ErrDataAccess) || errors.Is(err, types.ErrLibraryDetached) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, types.ErrDataAccess, err)
}

var _ types.Library = (*Backend)(nil)
