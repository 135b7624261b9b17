package csvdb

import (
	"strings"

	"github.com/mesh-intelligence/movielist/internal/csvfile"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

var _ types.UserTable = (*usersTable)(nil)

type usersTable struct {
	file *csvfile.Table
}

// Load reads the credential store; the last row for a username wins.
func (ut *usersTable) Load() (map[string]string, error) {
	rows, err := ut.file.ReadAll()
	if err != nil {
		return nil, err
	}
	users := make(map[string]string, len(rows))
	for _, row := range rows {
		u := strings.TrimSpace(row.Get(types.ColUsername))
		if u == "" {
			continue
		}
		users[u] = strings.TrimSpace(row.Get(types.ColPassword))
	}
	return users, nil
}
