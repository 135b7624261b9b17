package csvdb

import (
	"strings"

	"github.com/mesh-intelligence/movielist/internal/csvfile"
	"github.com/mesh-intelligence/movielist/internal/validate"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

// Compile-time interface check.
var _ types.MovieTable = (*moviesTable)(nil)

type moviesTable struct {
	file *csvfile.Table
}

// Add validates m and appends it for username. The store is not read.
func (mt *moviesTable) Add(username string, m types.Movie) error {
	m.Username = username
	clean, err := validate.Movie(m)
	if err != nil {
		return err
	}
	return mt.file.Append(clean.Row())
}

// ListForUser returns the user's rows in file order, trimmed.
func (mt *moviesTable) ListForUser(username string) ([]types.Movie, error) {
	rows, err := mt.file.ReadAll()
	if err != nil {
		return nil, err
	}
	var movies []types.Movie
	for _, row := range rows {
		if strings.TrimSpace(row.Get(types.ColUsername)) != username {
			continue
		}
		movies = append(movies, types.MovieFromRow(row))
	}
	return movies, nil
}

// FindIndex returns the store position of the first full-field match.
func (mt *moviesTable) FindIndex(username string, target types.Movie) (int, error) {
	rows, err := mt.file.ReadAll()
	if err != nil {
		return -1, err
	}
	i := findIndex(rows, username, target)
	if i < 0 {
		return -1, types.ErrNotFound
	}
	return i, nil
}

// Update replaces the first match of old with updated.
func (mt *moviesTable) Update(username string, old, updated types.Movie) error {
	updated.Username = username
	clean, err := validate.Movie(updated)
	if err != nil {
		return err
	}

	rows, err := mt.file.ReadAll()
	if err != nil {
		return err
	}
	i := findIndex(rows, username, old)
	if i < 0 {
		return types.ErrNotFound
	}
	rows[i] = csvfile.Row(clean.Row())
	return mt.file.WriteAll(rows)
}

// Delete removes the first match of target, keeping the order of the rest.
func (mt *moviesTable) Delete(username string, target types.Movie) error {
	rows, err := mt.file.ReadAll()
	if err != nil {
		return err
	}
	i := findIndex(rows, username, target)
	if i < 0 {
		return types.ErrNotFound
	}
	rows = append(rows[:i], rows[i+1:]...)
	return mt.file.WriteAll(rows)
}

// findIndex scans rows in file order. A row must belong to username and
// equal target on every field; the target's own username is not trusted.
func findIndex(rows []csvfile.Row, username string, target types.Movie) int {
	target.Username = username
	for i, row := range rows {
		if strings.TrimSpace(row.Get(types.ColUsername)) != username {
			continue
		}
		if types.MovieFromRow(row).Matches(target) {
			return i
		}
	}
	return -1
}
