package sqlite

import (
	"github.com/mesh-intelligence/movielist/internal/csvfile"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

var _ types.UserTable = (*usersTable)(nil)

type usersTable struct {
	backend *Backend
	file    *csvfile.Table
}

// Load reloads users.csv and returns the users table as a map.
func (ut *usersTable) Load() (map[string]string, error) {
	ut.backend.mu.Lock()
	defer ut.backend.mu.Unlock()

	if !ut.backend.attached {
		return nil, types.ErrLibraryDetached
	}
	rows, err := ut.file.ReadAll()
	if err != nil {
		return nil, err
	}
	if err := reloadUsers(ut.backend.db, rows); err != nil {
		return nil, types.NewStorageError("load", ut.file.Path, err)
	}

	result, err := ut.backend.db.Query("SELECT username, password FROM users")
	if err != nil {
		return nil, types.NewStorageError("query users", "", err)
	}
	defer result.Close()

	users := make(map[string]string)
	for result.Next() {
		var u, p string
		if err := result.Scan(&u, &p); err != nil {
			return nil, types.NewStorageError("scan user", "", err)
		}
		users[u] = p
	}
	if err := result.Err(); err != nil {
		return nil, types.NewStorageError("query users", "", err)
	}
	return users, nil
}
