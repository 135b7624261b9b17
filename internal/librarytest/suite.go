// Package librarytest holds the behaviour every types.Library backend must
// show. Backend packages call Run from their own tests.
package librarytest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/movielist/pkg/types"
)

// Factory returns a fresh, detached library.
type Factory func() types.Library

// Env is an attached library over a temporary data directory.
type Env struct {
	T       *testing.T
	Lib     types.Library
	Config  types.Config
	Movies  types.MovieTable
	Users   types.UserTable
	DataDir string
}

// NewEnv attaches a library from factory to a temp dir. Files listed in
// files are written before Attach.
func NewEnv(t *testing.T, backend string, factory Factory, files map[string]string) *Env {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg := types.Config{Backend: backend, DataDir: dir}
	lib := factory()
	require.NoError(t, lib.Attach(cfg))
	t.Cleanup(func() { lib.Detach() })

	movies, err := lib.Movies()
	require.NoError(t, err)
	users, err := lib.Users()
	require.NoError(t, err)

	return &Env{T: t, Lib: lib, Config: cfg, Movies: movies, Users: users, DataDir: dir}
}

// ReadMovies returns the raw movie store content.
func (e *Env) ReadMovies() string {
	e.T.Helper()
	data, err := os.ReadFile(e.Config.MoviesPath())
	require.NoError(e.T, err)
	return string(data)
}

// WriteMovies replaces the movie store content behind the backend's back.
func (e *Env) WriteMovies(content string) {
	e.T.Helper()
	require.NoError(e.T, os.WriteFile(e.Config.MoviesPath(), []byte(content), 0o644))
}

const movieHeader = "username,movie_name,director,genre,rating,year,watched\r\n"

// Run executes the shared backend suite.
func Run(t *testing.T, backend string, factory Factory) {
	t.Run("BootstrapSeedsStores", func(t *testing.T) {
		env := NewEnv(t, backend, factory, nil)

		users, err := env.Users.Load()
		require.NoError(t, err)
		assert.Equal(t, "demo123", users["demo"])
		assert.Equal(t, "password", users["alice"])
		assert.Equal(t, movieHeader, env.ReadMovies())

		data, err := os.ReadFile(env.Config.UsersPath())
		require.NoError(t, err)
		assert.Equal(t, "username,password\r\ndemo,demo123\r\nalice,password\r\n", string(data))
	})

	t.Run("BootstrapKeepsExistingStores", func(t *testing.T) {
		env := NewEnv(t, backend, factory, map[string]string{
			"users.csv":  "username,password\nbob,secret\n",
			"movies.csv": "username,movie_name,director,genre,rating,year,watched\nbob,Alien,,,,1979,Y\n",
		})

		users, err := env.Users.Load()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"bob": "secret"}, users)

		movies, err := env.Movies.ListForUser("bob")
		require.NoError(t, err)
		assert.Len(t, movies, 1)
	})

	t.Run("AttachTwice", func(t *testing.T) {
		env := NewEnv(t, backend, factory, nil)
		assert.ErrorIs(t, env.Lib.Attach(env.Config), types.ErrAlreadyAttached)
	})

	t.Run("DetachedAccess", func(t *testing.T) {
		lib := factory()
		_, err := lib.Movies()
		assert.ErrorIs(t, err, types.ErrLibraryDetached)
		_, err = lib.Users()
		assert.ErrorIs(t, err, types.ErrLibraryDetached)
		assert.NoError(t, lib.Detach())
	})

	t.Run("AttachRejectsBadConfig", func(t *testing.T) {
		lib := factory()
		err := lib.Attach(types.Config{Backend: "", DataDir: t.TempDir()})
		assert.ErrorIs(t, err, types.ErrBackendEmpty)
	})

	t.Run("CredentialsLastWriteWinsAndBlankSkipped", func(t *testing.T) {
		env := NewEnv(t, backend, factory, map[string]string{
			"users.csv": "username,password\r\nbob, one \r\n  ,ghost\r\nbob,two\r\n",
		})

		users, err := env.Users.Load()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"bob": "two"}, users)
	})

	t.Run("AddThenListRoundTrip", func(t *testing.T) {
		env := NewEnv(t, backend, factory, nil)

		in := []types.Movie{
			{Title: "Dune", Year: "2021", Watched: "Y"},
			{Title: "Heat", Director: "Michael Mann", Genre: "Crime", Rating: "8.5", Year: "1995", Watched: "N"},
			{Title: "Dune", Year: "2021", Watched: "Y"},
		}
		for _, m := range in {
			require.NoError(t, env.Movies.Add("alice", m))
		}
		require.NoError(t, env.Movies.Add("bob", types.Movie{Title: "Up", Watched: "Y"}))

		got, err := env.Movies.ListForUser("alice")
		require.NoError(t, err)
		require.Len(t, got, len(in))
		for i, m := range in {
			m.Username = "alice"
			assert.Equal(t, m, got[i])
		}
	})

	t.Run("AddPreservesEmptyOptionalFields", func(t *testing.T) {
		env := NewEnv(t, backend, factory, nil)

		dune := types.Movie{Username: "alice", Title: "Dune", Year: "2021", Watched: "Y"}
		require.NoError(t, env.Movies.Add("alice", dune))

		got, err := env.Movies.ListForUser("alice")
		require.NoError(t, err)
		assert.Equal(t, []types.Movie{dune}, got)
		assert.Equal(t, movieHeader+"alice,Dune,,,,2021,Y\r\n", env.ReadMovies())
	})

	t.Run("AddNormalizesAndForcesUsername", func(t *testing.T) {
		env := NewEnv(t, backend, factory, nil)

		require.NoError(t, env.Movies.Add("alice", types.Movie{Username: "mallory", Title: " Alien ", Rating: "9.0", Watched: "n"}))

		got, err := env.Movies.ListForUser("alice")
		require.NoError(t, err)
		assert.Equal(t, []types.Movie{{Username: "alice", Title: "Alien", Rating: "9", Watched: "N"}}, got)

		other, err := env.Movies.ListForUser("mallory")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("AddRejectsInvalid", func(t *testing.T) {
		env := NewEnv(t, backend, factory, nil)

		err := env.Movies.Add("alice", types.Movie{Title: "Dune", Rating: "11", Watched: "Y"})
		assert.ErrorIs(t, err, types.ErrInvalidValue)
		err = env.Movies.Add("alice", types.Movie{Title: "", Watched: "Y"})
		assert.ErrorIs(t, err, types.ErrInvalidValue)
		assert.Equal(t, movieHeader, env.ReadMovies())
	})

	t.Run("ListTrimsAndUppercases", func(t *testing.T) {
		env := NewEnv(t, backend, factory, map[string]string{
			"movies.csv": movieHeader + " alice , Dune ,,, 8 ,2021, y \r\nalicia,Dune,,,,,Y\r\n",
		})

		got, err := env.Movies.ListForUser("alice")
		require.NoError(t, err)
		assert.Equal(t, []types.Movie{{Username: "alice", Title: "Dune", Rating: "8", Year: "2021", Watched: "Y"}}, got)
	})

	t.Run("ListReflectsExternalChanges", func(t *testing.T) {
		env := NewEnv(t, backend, factory, nil)
		require.NoError(t, env.Movies.Add("alice", types.Movie{Title: "Dune", Watched: "Y"}))

		env.WriteMovies(movieHeader + "alice,Alien,,,,,N\r\nalice,Aliens,,,,,N\r\n")

		got, err := env.Movies.ListForUser("alice")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Alien", got[0].Title)
	})

	t.Run("FindIndexSkipsOtherUsers", func(t *testing.T) {
		env := NewEnv(t, backend, factory, map[string]string{
			"movies.csv": movieHeader + "bob,Dune,,,,,Y\r\nalice,Dune,,,,,Y\r\n",
		})

		target := types.Movie{Username: "bob", Title: "Dune", Watched: "y"}
		i, err := env.Movies.FindIndex("alice", target)
		require.NoError(t, err)
		assert.Equal(t, 1, i)

		_, err = env.Movies.FindIndex("carol", target)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("DeleteIsolatedPerUser", func(t *testing.T) {
		env := NewEnv(t, backend, factory, map[string]string{
			"movies.csv": movieHeader + "bob,Dune,,,,2021,Y\r\nalice,Dune,,,,2021,Y\r\nbob,Dune,,,,2021,Y\r\n",
		})

		err := env.Movies.Delete("alice", types.Movie{Username: "alice", Title: "Dune", Year: "2021", Watched: "Y"})
		require.NoError(t, err)

		assert.Equal(t, movieHeader+"bob,Dune,,,,2021,Y\r\nbob,Dune,,,,2021,Y\r\n", env.ReadMovies())

		err = env.Movies.Delete("alice", types.Movie{Username: "alice", Title: "Dune", Year: "2021", Watched: "Y"})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("DeleteFirstOfDuplicates", func(t *testing.T) {
		env := NewEnv(t, backend, factory, map[string]string{
			"movies.csv": movieHeader + "alice,Dune,,,,,Y\r\nalice,Heat,,,,,N\r\nalice,Dune,,,,,Y\r\n",
		})

		require.NoError(t, env.Movies.Delete("alice", types.Movie{Title: "Dune", Watched: "Y"}))

		got, err := env.Movies.ListForUser("alice")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Heat", got[0].Title)
		assert.Equal(t, "Dune", got[1].Title)
	})

	t.Run("DeleteKeepsRelativeOrder", func(t *testing.T) {
		env := NewEnv(t, backend, factory, map[string]string{
			"movies.csv": movieHeader + "alice,A,,,,,Y\r\nbob,B,,,,,Y\r\nalice,C,,,,,Y\r\nalice,D,,,,,N\r\nbob,E,,,,,N\r\n",
		})

		require.NoError(t, env.Movies.Delete("alice", types.Movie{Title: "C", Watched: "Y"}))

		assert.Equal(t, movieHeader+"alice,A,,,,,Y\r\nbob,B,,,,,Y\r\nalice,D,,,,,N\r\nbob,E,,,,,N\r\n", env.ReadMovies())
	})

	t.Run("DeleteNotFoundLeavesStoreUntouched", func(t *testing.T) {
		content := movieHeader + "alice, Dune ,,,,,y\r\n"
		env := NewEnv(t, backend, factory, map[string]string{"movies.csv": content})

		err := env.Movies.Delete("alice", types.Movie{Title: "Dune", Watched: "N"})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, content, env.ReadMovies())
	})

	t.Run("UpdateReplacesInPlace", func(t *testing.T) {
		env := NewEnv(t, backend, factory, map[string]string{
			"movies.csv": movieHeader + "alice,A,,,,,Y\r\nbob,Dune,,,,,N\r\nalice,Dune,,,,,N\r\nalice,Z,,,,,Y\r\n",
		})

		old := types.Movie{Username: "alice", Title: "Dune", Watched: "N"}
		updated := types.Movie{Username: "bob", Title: "Dune", Director: "Denis Villeneuve", Rating: "8.0", Year: "2021", Watched: "y"}
		require.NoError(t, env.Movies.Update("alice", old, updated))

		assert.Equal(t, movieHeader+
			"alice,A,,,,,Y\r\n"+
			"bob,Dune,,,,,N\r\n"+
			"alice,Dune,Denis Villeneuve,,8,2021,Y\r\n"+
			"alice,Z,,,,,Y\r\n", env.ReadMovies())
	})

	t.Run("UpdateNotFoundLeavesStoreUntouched", func(t *testing.T) {
		content := movieHeader + "alice,Dune,,,,2021,Y\r\nbob,Heat,,,,,N\r\n"
		env := NewEnv(t, backend, factory, map[string]string{"movies.csv": content})

		err := env.Movies.Update("alice",
			types.Movie{Title: "Dune", Year: "2020", Watched: "Y"},
			types.Movie{Title: "Dune 2", Watched: "Y"})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, content, env.ReadMovies())

		err = env.Movies.Update("alice",
			types.Movie{Title: "Heat", Watched: "N"},
			types.Movie{Title: "Heat", Watched: "N"})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, content, env.ReadMovies())
	})

	t.Run("UpdateRejectsInvalid", func(t *testing.T) {
		content := movieHeader + "alice,Dune,,,,,Y\r\n"
		env := NewEnv(t, backend, factory, map[string]string{"movies.csv": content})

		err := env.Movies.Update("alice", types.Movie{Title: "Dune", Watched: "Y"}, types.Movie{Title: "Dune", Year: "1700", Watched: "Y"})
		assert.ErrorIs(t, err, types.ErrInvalidValue)
		assert.Equal(t, content, env.ReadMovies())
	})

	t.Run("StorageErrorsAreDistinct", func(t *testing.T) {
		env := NewEnv(t, backend, factory, nil)
		env.WriteMovies(movieHeader + "alice,\"Dune,,,,,Y\r\n")

		_, err := env.Movies.ListForUser("alice")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrStorage))
		assert.False(t, errors.Is(err, types.ErrNotFound))

		err = env.Movies.Delete("alice", types.Movie{Title: "Dune", Watched: "Y"})
		assert.True(t, errors.Is(err, types.ErrStorage))

		require.NoError(t, os.Remove(env.Config.MoviesPath()))
		_, err = env.Movies.FindIndex("alice", types.Movie{Title: "Dune", Watched: "Y"})
		assert.True(t, errors.Is(err, types.ErrStorage))
	})
}
