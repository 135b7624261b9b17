package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid csv config",
			config:  Config{Backend: "csv", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "csv with empty DataDir is valid at config level",
			config:  Config{Backend: "csv", DataDir: ""},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigPaths(t *testing.T) {
	tests := []struct {
		name       string
		config     Config
		wantUsers  string
		wantMovies string
	}{
		{
			name:       "defaults to current directory",
			config:     Config{},
			wantUsers:  DefaultUsersFile,
			wantMovies: DefaultMoviesFile,
		},
		{
			name:       "joins data dir",
			config:     Config{DataDir: "/srv/movies"},
			wantUsers:  "/srv/movies/users.csv",
			wantMovies: "/srv/movies/movies.csv",
		},
		{
			name:       "custom relative names",
			config:     Config{DataDir: "/srv/movies", UsersFile: "accounts.csv", MoviesFile: "list.csv"},
			wantUsers:  "/srv/movies/accounts.csv",
			wantMovies: "/srv/movies/list.csv",
		},
		{
			name:       "absolute names ignore data dir",
			config:     Config{DataDir: "/srv/movies", UsersFile: "/etc/movielist/users.csv"},
			wantUsers:  "/etc/movielist/users.csv",
			wantMovies: "/srv/movies/movies.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.UsersPath(); got != filepath.FromSlash(tt.wantUsers) {
				t.Errorf("UsersPath() = %q, want %q", got, tt.wantUsers)
			}
			if got := tt.config.MoviesPath(); got != filepath.FromSlash(tt.wantMovies) {
				t.Errorf("MoviesPath() = %q, want %q", got, tt.wantMovies)
			}
		})
	}
}
