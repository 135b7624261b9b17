// Package movielist provides the public API for embedding the movie list:
// the release version and the factory for storage backends. Backend
// implementations stay internal.
package movielist

import (
	"fmt"

	"github.com/mesh-intelligence/movielist/internal/csvdb"
	"github.com/mesh-intelligence/movielist/internal/sqlite"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

// Version is the movielist release version.
const Version = "0.1.0"

// NewBackend creates a backend instance by name. The backend is not
// attached; call Attach with a Config to initialize.
//
// Example:
//
//	lib, err := movielist.NewBackend(types.BackendCSV)
//	if err != nil {
//	    return err
//	}
//	err = lib.Attach(types.Config{Backend: types.BackendCSV, DataDir: "."})
//	defer lib.Detach()
func NewBackend(name string) (types.Library, error) {
	switch name {
	case "":
		return nil, types.ErrBackendEmpty
	case types.BackendCSV:
		return csvdb.NewBackend(), nil
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, name)
	}
}
