package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/movielist/internal/csvfile"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

// reloadMovies replaces the movies table with rows, numbering them in file
// order. Values are stored as read so a rewrite reproduces untouched rows.
func reloadMovies(db *sql.DB, rows []csvfile.Row) error {
	insertSQL := fmt.Sprintf(
		"INSERT INTO movies (seq, %s) VALUES (?, %s)",
		strings.Join(types.MovieColumns, ", "),
		placeholders(len(types.MovieColumns)),
	)
	return reload(db, "movies", insertSQL, len(rows), func(i int) []any {
		args := []any{i}
		for _, col := range types.MovieColumns {
			args = append(args, rows[i].Get(col))
		}
		return args
	})
}

// reloadUsers replaces the users table. Usernames and passwords are
// trimmed, blank usernames skipped and later rows overwrite earlier ones.
func reloadUsers(db *sql.DB, rows []csvfile.Row) error {
	var kept []csvfile.Row
	for _, row := range rows {
		if strings.TrimSpace(row.Get(types.ColUsername)) != "" {
			kept = append(kept, row)
		}
	}
	insertSQL := "INSERT INTO users (username, password) VALUES (?, ?) " +
		"ON CONFLICT(username) DO UPDATE SET password = excluded.password"
	return reload(db, "users", insertSQL, len(kept), func(i int) []any {
		return []any{
			strings.TrimSpace(kept[i].Get(types.ColUsername)),
			strings.TrimSpace(kept[i].Get(types.ColPassword)),
		}
	})
}

// reload empties table and inserts n records in one transaction.
func reload(db *sql.DB, table, insertSQL string, n int, args func(i int) []any) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return fmt.Errorf("loading %s row %d: %w", table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// placeholders returns n comma-separated "?".
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
