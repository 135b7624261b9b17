package types

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Watched flag values as persisted.
const (
	WatchedYes = "Y"
	WatchedNo  = "N"
)

// Movie store columns in file order.
const (
	ColUsername = "username"
	ColTitle    = "movie_name"
	ColDirector = "director"
	ColGenre    = "genre"
	ColRating   = "rating"
	ColYear     = "year"
	ColWatched  = "watched"
)

// Credential store columns in file order.
const (
	ColPassword = "password"
)

// MovieColumns is the header of the movie store.
var MovieColumns = []string{ColUsername, ColTitle, ColDirector, ColGenre, ColRating, ColYear, ColWatched}

// UserColumns is the header of the credential store.
var UserColumns = []string{ColUsername, ColPassword}

// Movie is one row of the movie store. All fields are stored as text;
// Rating and Year hold their normalized forms or "".
type Movie struct {
	Username string `json:"username" yaml:"username" toml:"username"`
	Title    string `json:"movie_name" yaml:"movie_name" toml:"movie_name"`
	Director string `json:"director" yaml:"director" toml:"director"`
	Genre    string `json:"genre" yaml:"genre" toml:"genre"`
	Rating   string `json:"rating" yaml:"rating" toml:"rating"`
	Year     string `json:"year" yaml:"year" toml:"year"`
	Watched  string `json:"watched" yaml:"watched" toml:"watched"`
}

// Credential is one row of the credential store.
type Credential struct {
	Username string
	Password string
}

// Row returns the credential keyed by column name.
func (c Credential) Row() map[string]string {
	return map[string]string{ColUsername: c.Username, ColPassword: c.Password}
}

// NormalizeWatched trims and upper-cases a watched flag.
func NormalizeWatched(s string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

// MovieFromRow builds a Movie from a row keyed by column name. Values are
// trimmed and the watched flag is upper-cased; absent columns become "".
func MovieFromRow(row map[string]string) Movie {
	return Movie{
		Username: strings.TrimSpace(row[ColUsername]),
		Title:    strings.TrimSpace(row[ColTitle]),
		Director: strings.TrimSpace(row[ColDirector]),
		Genre:    strings.TrimSpace(row[ColGenre]),
		Rating:   strings.TrimSpace(row[ColRating]),
		Year:     strings.TrimSpace(row[ColYear]),
		Watched:  NormalizeWatched(row[ColWatched]),
	}
}

// Row returns the movie keyed by column name.
func (m Movie) Row() map[string]string {
	return map[string]string{
		ColUsername: m.Username,
		ColTitle:    m.Title,
		ColDirector: m.Director,
		ColGenre:    m.Genre,
		ColRating:   m.Rating,
		ColYear:     m.Year,
		ColWatched:  m.Watched,
	}
}

// Matches reports whether m equals target on every field. Both sides are
// compared trimmed and the watched flag ignores case. Two rows with equal
// fields are indistinguishable; there is no surrogate key.
func (m Movie) Matches(target Movie) bool {
	return strings.TrimSpace(m.Username) == strings.TrimSpace(target.Username) &&
		strings.TrimSpace(m.Title) == strings.TrimSpace(target.Title) &&
		strings.TrimSpace(m.Director) == strings.TrimSpace(target.Director) &&
		strings.TrimSpace(m.Genre) == strings.TrimSpace(target.Genre) &&
		strings.TrimSpace(m.Rating) == strings.TrimSpace(target.Rating) &&
		strings.TrimSpace(m.Year) == strings.TrimSpace(target.Year) &&
		NormalizeWatched(m.Watched) == NormalizeWatched(target.Watched)
}

// DisplayTitle returns the title or a placeholder for an empty one.
func (m Movie) DisplayTitle() string {
	if m.Title == "" {
		return "(Untitled)"
	}
	return m.Title
}
