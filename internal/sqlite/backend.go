// Package sqlite implements a movielist backend that uses SQLite as the
// query engine and the CSV files as the source of truth. Every operation
// reloads the relevant CSV file into an in-memory database, runs its query
// there, and writes the CSV file back after a mutation.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/movielist/internal/csvdb"
	"github.com/mesh-intelligence/movielist/internal/csvfile"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

// Backend implements types.Library.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	movies   *moviesTable
	users    *usersTable
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates missing CSV stores, opens the in-memory database and
// creates the schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	users := csvfile.New(config.UsersPath(), types.UserColumns)
	movies := csvfile.New(config.MoviesPath(), types.MovieColumns)
	if err := csvdb.EnsureStores(users, movies); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return types.NewStorageError("open database", "", err)
	}
	// Each pooled connection would get its own :memory: database.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return types.NewStorageError("create schema", "", err)
		}
	}

	b.db = db
	b.config = config
	b.users = &usersTable{backend: b, file: users}
	b.movies = &moviesTable{backend: b, file: movies}
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
		b.db = nil
	}
	b.attached = false
	b.users = nil
	b.movies = nil
	return nil
}

// Movies returns the movie table.
func (b *Backend) Movies() (types.MovieTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrLibraryDetached
	}
	return b.movies, nil
}

// Users returns the credential table.
func (b *Backend) Users() (types.UserTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrLibraryDetached
	}
	return b.users, nil
}
