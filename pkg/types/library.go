package types

import "errors"

// Library is the storage entry point. Callers attach to a backend, use the
// movie and user tables, and detach when done.
type Library interface {
	// Attach creates missing stores (seeding the demo credentials) and
	// prepares the backend. Returns ErrAlreadyAttached on a second call.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// Movies returns the movie table. Returns ErrLibraryDetached before Attach.
	Movies() (MovieTable, error)

	// Users returns the credential table. Returns ErrLibraryDetached before Attach.
	Users() (UserTable, error)
}

// MovieTable holds CRUD operations scoped to one user's rows. Rows of other
// users are never returned, matched or altered.
type MovieTable interface {
	// Add validates m, forces its username and appends it to the store.
	Add(username string, m Movie) error

	// ListForUser returns the user's movies in file order.
	ListForUser(username string) ([]Movie, error)

	// FindIndex returns the position in the whole store of the first row
	// owned by username that matches target on every field.
	// Returns ErrNotFound when nothing matches.
	FindIndex(username string, target Movie) (int, error)

	// Update replaces the first row matching old with updated and rewrites
	// the store. Returns ErrNotFound, without writing, when nothing matches.
	Update(username string, old, updated Movie) error

	// Delete removes the first row matching target and rewrites the store.
	// Returns ErrNotFound, without writing, when nothing matches.
	Delete(username string, target Movie) error
}

// UserTable reads the credential store.
type UserTable interface {
	// Load returns username to password. Later rows win; blank usernames
	// are skipped.
	Load() (map[string]string, error)
}

// Library lifecycle errors.
var (
	ErrLibraryDetached = errors.New("library is detached")
	ErrAlreadyAttached = errors.New("library is already attached")
)
