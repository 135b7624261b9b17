package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/movielist/internal/csvfile"
	"github.com/mesh-intelligence/movielist/internal/validate"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

var _ types.MovieTable = (*moviesTable)(nil)

// moviesTable answers movie queries from SQLite after reloading movies.csv.
type moviesTable struct {
	backend *Backend
	file    *csvfile.Table
}

const selectMovieColumns = "username, movie_name, director, genre, rating, year, watched"

// matchWhere selects the user's rows equal to a target on every field.
// Each column is preceded by the trim character set in the argument list.
const matchWhere = `trim(username, ?) = ?
    AND trim(movie_name, ?) = ?
    AND trim(director, ?) = ?
    AND trim(genre, ?) = ?
    AND trim(rating, ?) = ?
    AND trim(year, ?) = ?
    AND upper(trim(watched, ?)) = ?`

// Add validates m and appends it to movies.csv.
func (mt *moviesTable) Add(username string, m types.Movie) error {
	m.Username = username
	clean, err := validate.Movie(m)
	if err != nil {
		return err
	}
	mt.backend.mu.Lock()
	defer mt.backend.mu.Unlock()

	if !mt.backend.attached {
		return types.ErrLibraryDetached
	}
	return mt.file.Append(clean.Row())
}

// ListForUser returns the user's movies ordered by file position.
func (mt *moviesTable) ListForUser(username string) ([]types.Movie, error) {
	mt.backend.mu.Lock()
	defer mt.backend.mu.Unlock()

	if err := mt.refresh(); err != nil {
		return nil, err
	}
	rows, err := mt.backend.db.Query(
		"SELECT "+selectMovieColumns+" FROM movies WHERE trim(username, ?) = ? ORDER BY seq",
		trimChars, username,
	)
	if err != nil {
		return nil, types.NewStorageError("query movies", "", err)
	}
	defer rows.Close()

	var movies []types.Movie
	for rows.Next() {
		row, err := scanMovieRow(rows)
		if err != nil {
			return nil, types.NewStorageError("scan movie", "", err)
		}
		movies = append(movies, types.MovieFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStorageError("query movies", "", err)
	}
	return movies, nil
}

// FindIndex returns the file position of the first full-field match.
func (mt *moviesTable) FindIndex(username string, target types.Movie) (int, error) {
	mt.backend.mu.Lock()
	defer mt.backend.mu.Unlock()

	if err := mt.refresh(); err != nil {
		return -1, err
	}
	return mt.findSeq(username, target)
}

// Update replaces the first match of old with updated and rewrites movies.csv.
func (mt *moviesTable) Update(username string, old, updated types.Movie) error {
	updated.Username = username
	clean, err := validate.Movie(updated)
	if err != nil {
		return err
	}

	mt.backend.mu.Lock()
	defer mt.backend.mu.Unlock()

	if err := mt.refresh(); err != nil {
		return err
	}
	seq, err := mt.findSeq(username, old)
	if err != nil {
		return err
	}
	_, err = mt.backend.db.Exec(
		"UPDATE movies SET username = ?, movie_name = ?, director = ?, genre = ?, rating = ?, year = ?, watched = ? WHERE seq = ?",
		clean.Username, clean.Title, clean.Director, clean.Genre, clean.Rating, clean.Year, clean.Watched, seq,
	)
	if err != nil {
		return types.NewStorageError("update movie", "", err)
	}
	return mt.persist()
}

// Delete removes the first match of target and rewrites movies.csv.
func (mt *moviesTable) Delete(username string, target types.Movie) error {
	mt.backend.mu.Lock()
	defer mt.backend.mu.Unlock()

	if err := mt.refresh(); err != nil {
		return err
	}
	seq, err := mt.findSeq(username, target)
	if err != nil {
		return err
	}
	if _, err := mt.backend.db.Exec("DELETE FROM movies WHERE seq = ?", seq); err != nil {
		return types.NewStorageError("delete movie", "", err)
	}
	return mt.persist()
}

// refresh loads movies.csv into the movies table. The caller holds
// backend.mu.
func (mt *moviesTable) refresh() error {
	if !mt.backend.attached {
		return types.ErrLibraryDetached
	}
	rows, err := mt.file.ReadAll()
	if err != nil {
		return err
	}
	if err := reloadMovies(mt.backend.db, rows); err != nil {
		return types.NewStorageError("load", mt.file.Path, err)
	}
	return nil
}

// findSeq returns the seq of the first match, or ErrNotFound.
func (mt *moviesTable) findSeq(username string, target types.Movie) (int, error) {
	var seq int
	err := mt.backend.db.QueryRow(
		"SELECT seq FROM movies WHERE "+matchWhere+" ORDER BY seq LIMIT 1",
		trimChars, username,
		trimChars, strings.TrimSpace(target.Title),
		trimChars, strings.TrimSpace(target.Director),
		trimChars, strings.TrimSpace(target.Genre),
		trimChars, strings.TrimSpace(target.Rating),
		trimChars, strings.TrimSpace(target.Year),
		trimChars, types.NormalizeWatched(target.Watched),
	).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return -1, types.ErrNotFound
	}
	if err != nil {
		return -1, types.NewStorageError("match movie", "", err)
	}
	return seq, nil
}

// persist writes the movies table back to movies.csv in seq order.
func (mt *moviesTable) persist() error {
	rows, err := mt.backend.db.Query("SELECT " + selectMovieColumns + " FROM movies ORDER BY seq")
	if err != nil {
		return types.NewStorageError("query movies", "", err)
	}
	defer rows.Close()

	var out []csvfile.Row
	for rows.Next() {
		row, err := scanMovieRow(rows)
		if err != nil {
			return types.NewStorageError("scan movie", "", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return types.NewStorageError("query movies", "", err)
	}
	rows.Close()

	if err := mt.file.WriteAll(out); err != nil {
		return fmt.Errorf("persisting movies: %w", err)
	}
	return nil
}

func scanMovieRow(rows *sql.Rows) (csvfile.Row, error) {
	vals := make([]string, len(types.MovieColumns))
	ptrs := make([]any, len(vals))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(csvfile.Row, len(vals))
	for i, col := range types.MovieColumns {
		row[col] = vals[i]
	}
	return row, nil
}
