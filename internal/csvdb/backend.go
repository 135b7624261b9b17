// Package csvdb implements the default movielist backend: the CSV files
// are read on every operation, scanned linearly and rewritten wholesale on
// mutation. Nothing is cached between calls, so external edits are visible
// to the next operation.
package csvdb

import (
	"sync"

	"github.com/mesh-intelligence/movielist/internal/csvfile"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

// SeedUsers are written to a newly created credential store so the
// application can be used right away.
var SeedUsers = []types.Credential{
	{Username: "demo", Password: "demo123"},
	{Username: "alice", Password: "password"},
}

// Backend implements types.Library over two CSV files.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	movies   *moviesTable
	users    *usersTable
}

// NewBackend creates a detached CSV backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach validates config and creates the stores when missing: the
// credential store with SeedUsers, the movie store with its header only.
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
	if err := EnsureStores(users, movies); err != nil {
		return err
	}

	b.config = config
	b.users = &usersTable{file: users}
	b.movies = &moviesTable{file: movies}
	b.attached = true
	return nil
}

// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

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

// EnsureStores creates the credential and movie stores if they are absent.
// Shared with the sqlite backend, which keeps the same files as its source
// of truth.
func EnsureStores(users, movies *csvfile.Table) error {
	seed := make([]csvfile.Row, len(SeedUsers))
	for i, c := range SeedUsers {
		seed[i] = c.Row()
	}
	if err := users.Ensure(seed); err != nil {
		return err
	}
	return movies.Ensure(nil)
}
