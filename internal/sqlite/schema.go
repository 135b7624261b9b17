package sqlite

// Schema DDL. seq is the row's position in the CSV file and gives the
// file order for every query.
const (
	createMovies = `CREATE TABLE movies (
    seq INTEGER PRIMARY KEY,
    username TEXT NOT NULL,
    movie_name TEXT NOT NULL,
    director TEXT NOT NULL,
    genre TEXT NOT NULL,
    rating TEXT NOT NULL,
    year TEXT NOT NULL,
    watched TEXT NOT NULL
);`

	createUsers = `CREATE TABLE users (
    username TEXT PRIMARY KEY,
    password TEXT NOT NULL
);`

	idxMoviesUsername = `CREATE INDEX idx_movies_username ON movies(username);`
)

// schemaDDL lists all statements executed on Attach.
var schemaDDL = []string{
	createMovies,
	createUsers,
	idxMoviesUsername,
}

// trimChars is passed to SQLite trim() so column comparisons ignore the
// same surrounding whitespace the CSV backend strips.
const trimChars = " \t\r\n\v\f"
