package types

import (
	"errors"
	"path/filepath"
)

// Config holds backend selection and file locations for Library.Attach.
type Config struct {
	Backend    string `json:"backend" yaml:"backend"`
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	UsersFile  string `json:"users_file" yaml:"users_file"`
	MoviesFile string `json:"movies_file" yaml:"movies_file"`
}

// Supported backend names.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Default file names inside DataDir.
const (
	DefaultUsersFile  = "users.csv"
	DefaultMoviesFile = "movies.csv"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendCSV:    true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// UsersPath returns the credential store path, applying defaults.
func (c Config) UsersPath() string {
	return joinData(c.DataDir, c.UsersFile, DefaultUsersFile)
}

// MoviesPath returns the movie store path, applying defaults.
func (c Config) MoviesPath() string {
	return joinData(c.DataDir, c.MoviesFile, DefaultMoviesFile)
}

// joinData resolves name against dataDir. An absolute name is returned as is.
func joinData(dataDir, name, fallback string) string {
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return name
	}
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, name)
}
