package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/movielist/internal/csvdb"
	"github.com/mesh-intelligence/movielist/internal/librarytest"
	"github.com/mesh-intelligence/movielist/internal/logging"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

const header = "username,movie_name,director,genre,rating,year,watched\r\n"

// lines joins scripted answers, one per prompt.
func lines(answers ...string) string {
	return strings.Join(answers, "\n") + "\n"
}

// runScript attaches a CSV library over movies (if non-empty), runs a
// session on input and returns its output and the environment.
func runScript(t *testing.T, movies, input string) (string, *librarytest.Env, *Session) {
	t.Helper()

	files := map[string]string{}
	if movies != "" {
		files[types.DefaultMoviesFile] = movies
	}
	env := librarytest.NewEnv(t, types.BackendCSV, func() types.Library { return csvdb.NewBackend() }, files)

	var out bytes.Buffer
	s, err := New(env.Lib, Options{In: strings.NewReader(input), Out: &out})
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
	return out.String(), env, s
}

func TestLoginRetryThenQuit(t *testing.T) {
	out, _, s := runScript(t, "", lines("demo", "wrong", " demo ", "demo123", "q"))

	assert.Contains(t, out, "Welcome to Personal Movie List")
	assert.Contains(t, out, "Login failed. Invalid username or password. Please try again.")
	assert.Contains(t, out, "Login successful. Welcome, demo!")
	assert.Contains(t, out, "Goodbye!")
	assert.Equal(t, "demo", s.Username())
	assert.NotEmpty(t, s.ID())
}

func TestEndOfInputEndsSession(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "during login", input: "demo\n"},
		{name: "at home", input: lines("demo", "demo123")},
		{name: "during add", input: lines("demo", "demo123", "2", "Dune")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, env, _ := runScript(t, "", tt.input)
			assert.NotContains(t, out, "Goodbye!")
			assert.Equal(t, header, env.ReadMovies())
		})
	}
}

func TestHomeRejectsUnknownCommand(t *testing.T) {
	out, _, _ := runScript(t, "", lines("demo", "demo123", "4", "EXIT"))

	assert.Contains(t, out, "Invalid command. Please choose 1, 2, 3, or Q.")
	assert.Contains(t, out, "Goodbye!")
}

func TestAddMovie(t *testing.T) {
	out, env, _ := runScript(t, "", lines(
		"alice", "password",
		"2",
		"", "Dune",
		"  Villeneuve ",
		"Sci-Fi",
		"11", "8.50",
		"0999", "2021",
		"maybe", "y",
		"q",
	))

	assert.Contains(t, out, "This field cannot be empty. Please try again.")
	assert.Contains(t, out, "Invalid rating. Enter a number between 0.0 and 10.0, or leave blank.")
	assert.Contains(t, out, "Invalid year. Enter a number between 1888 and 2100, or leave blank.")
	assert.Contains(t, out, "Invalid input. Please enter Y or N.")
	assert.Contains(t, out, "Movie added successfully.")
	assert.Equal(t, header+"alice,Dune,Villeneuve,Sci-Fi,8.5,2021,Y\r\n", env.ReadMovies())
}

func TestEmptyListsReturnHome(t *testing.T) {
	out, _, _ := runScript(t, header+"bob,Heat,,,,,N\r\n", lines("alice", "password", "1", "3", "q"))

	assert.Equal(t, 2, strings.Count(out, "No movies found."))
	assert.NotContains(t, out, "Heat")
	assert.Contains(t, out, "Goodbye!")
}

func TestViewEditSave(t *testing.T) {
	seed := header +
		"alice,Dune,,Sci-Fi,8,2021,Y\r\n" +
		"bob,Heat,Mann,Crime,9,1995,N\r\n"

	out, env, _ := runScript(t, seed, lines(
		"alice", "password",
		"1", "1",
		"e",
		"",
		"Denis Villeneuve",
		"",
		"11", "9",
		"abc", "",
		"n",
		"y",
		"",
		"b",
		"q",
	))

	assert.Contains(t, out, "Movie name [Dune] (press Enter to keep): ")
	assert.Contains(t, out, "Director [-] (press Enter to keep): ")
	assert.Contains(t, out, "Invalid rating. Enter 0.0-10.0.")
	assert.Contains(t, out, "Invalid year. Enter 1888-2100.")
	assert.Contains(t, out, "Updated successfully.")
	assert.Contains(t, out, "Denis Villeneuve")
	assert.Equal(t, header+
		"alice,Dune,Denis Villeneuve,Sci-Fi,9,2021,N\r\n"+
		"bob,Heat,Mann,Crime,9,1995,N\r\n", env.ReadMovies())
}

func TestEditCanceled(t *testing.T) {
	seed := header + "alice,Dune,,,,,Y\r\n"
	out, env, _ := runScript(t, seed, lines(
		"alice", "password",
		"1", "1", "edit",
		"Arrival", "", "", "", "", "",
		"n",
		"", "b", "q",
	))

	assert.Contains(t, out, "Edit canceled.")
	assert.Equal(t, seed, env.ReadMovies())
}

func TestDetailsDelete(t *testing.T) {
	seed := header +
		"alice,Dune,,,,,Y\r\n" +
		"alice,Heat,,,,,N\r\n"

	out, env, _ := runScript(t, seed, lines(
		"alice", "password",
		"1", "2",
		"x",
		"d", "maybe", "y",
		"b", "q",
	))

	assert.Contains(t, out, "Invalid input. Type E to edit, D to delete, or press Enter to go back.")
	assert.Contains(t, out, "Please enter Y or N.")
	assert.Contains(t, out, "Deleted successfully.")
	assert.Equal(t, header+"alice,Dune,,,,,Y\r\n", env.ReadMovies())
}

func TestDetailsDeleteCanceled(t *testing.T) {
	seed := header + "alice,Dune,,,,,Y\r\n"
	out, env, _ := runScript(t, seed, lines(
		"alice", "password",
		"1", "1",
		"delete", "n",
		"", "back", "q",
	))

	assert.Contains(t, out, "Delete canceled.")
	assert.Equal(t, seed, env.ReadMovies())
}

func TestViewListRejectsBadSelection(t *testing.T) {
	seed := header + "alice,Dune,,,,,Y\r\n"
	out, _, _ := runScript(t, seed, lines("alice", "password", "1", "0", "2", "one", "b", "q"))

	assert.Equal(t, 3, strings.Count(out, "Invalid input. Please enter a valid movie number or B."))
	assert.Contains(t, out, "Goodbye!")
}

func TestHomeDelete(t *testing.T) {
	seed := header +
		"alice,Dune,,,,,Y\r\n" +
		"bob,Dune,,,,,Y\r\n" +
		"alice,Heat,,,,,N\r\n"

	out, env, _ := runScript(t, seed, lines(
		"alice", "password",
		"3", "5",
		"1", "y",
		"q",
	))

	assert.Contains(t, out, "--- Delete Movie ---")
	assert.Contains(t, out, "Invalid input. Please enter a valid movie number or B.")
	assert.Contains(t, out, "--- Movie Details ---")
	assert.Contains(t, out, "Deleted successfully.")
	assert.Equal(t, header+
		"bob,Dune,,,,,Y\r\n"+
		"alice,Heat,,,,,N\r\n", env.ReadMovies())
}

func TestHomeDeleteCanceled(t *testing.T) {
	seed := header + "alice,Dune,,,,,Y\r\n"
	out, env, _ := runScript(t, seed, lines("alice", "password", "3", "1", "n", "q"))

	assert.Contains(t, out, "Delete canceled.")
	assert.Contains(t, out, "Goodbye!")
	assert.Equal(t, seed, env.ReadMovies())
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	env := librarytest.NewEnv(t, types.BackendCSV, func() types.Library { return csvdb.NewBackend() }, nil)
	s, err := New(env.Lib, Options{In: strings.NewReader(lines("demo", "demo123")), Out: io.Discard})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
}

// syncBuffer is a bytes.Buffer safe for a concurrent writer and reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunStopsWhilePromptBlocks(t *testing.T) {
	seed := header + "demo,Dune,,,,,Y\r\n"
	tests := []struct {
		name    string
		input   string
		waitFor string
	}{
		{name: "home prompt", input: lines("demo", "demo123"), waitFor: "Select a command: "},
		{name: "password prompt", input: lines("demo"), waitFor: "Password: "},
		{name: "mid edit", input: lines("demo", "demo123", "1", "1", "e", "Arrival"), waitFor: "Director [-]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := librarytest.NewEnv(t, types.BackendCSV, func() types.Library { return csvdb.NewBackend() },
				map[string]string{types.DefaultMoviesFile: seed})

			in, feed := io.Pipe()
			t.Cleanup(func() { feed.Close() })
			var out syncBuffer
			s, err := New(env.Lib, Options{In: in, Out: &out})
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- s.Run(ctx) }()

			_, err = io.WriteString(feed, tt.input)
			require.NoError(t, err)
			require.Eventually(t, func() bool {
				return strings.Contains(out.String(), tt.waitFor)
			}, 2*time.Second, 10*time.Millisecond)

			cancel()
			select {
			case err := <-done:
				assert.ErrorIs(t, err, context.Canceled)
			case <-time.After(2 * time.Second):
				t.Fatal("Run still blocked after the context was cancelled")
			}
			assert.Equal(t, seed, env.ReadMovies())
			assert.NotContains(t, out.String(), "Goodbye!")
		})
	}
}

func TestNewRequiresAttachedLibrary(t *testing.T) {
	_, err := New(csvdb.NewBackend(), Options{In: strings.NewReader(""), Out: io.Discard})
	assert.ErrorIs(t, err, types.ErrLibraryDetached)
}

// fakeLibrary serves canned errors to exercise failure paths.
type fakeLibrary struct {
	movies *fakeMovies
	users  fakeUsers
}

func (f *fakeLibrary) Attach(types.Config) error { return nil }
func (f *fakeLibrary) Detach() error             { return nil }
func (f *fakeLibrary) Movies() (types.MovieTable, error) {
	return f.movies, nil
}
func (f *fakeLibrary) Users() (types.UserTable, error) {
	return f.users, nil
}

type fakeUsers struct{ err error }

func (u fakeUsers) Load() (map[string]string, error) {
	if u.err != nil {
		return nil, u.err
	}
	return map[string]string{"demo": "demo123"}, nil
}

type fakeMovies struct {
	list      []types.Movie
	listErr   error
	updateErr error
	deleteErr error
	listCalls int
}

func (m *fakeMovies) Add(string, types.Movie) error { return nil }
func (m *fakeMovies) ListForUser(string) ([]types.Movie, error) {
	m.listCalls++
	return m.list, m.listErr
}
func (m *fakeMovies) FindIndex(string, types.Movie) (int, error) { return -1, types.ErrNotFound }
func (m *fakeMovies) Update(string, types.Movie, types.Movie) error {
	return m.updateErr
}
func (m *fakeMovies) Delete(string, types.Movie) error { return m.deleteErr }

func runFake(t *testing.T, lib *fakeLibrary, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	s, err := New(lib, Options{In: strings.NewReader(input), Out: &out})
	require.NoError(t, err)
	err = s.Run(context.Background())
	return out.String(), err
}

func TestStorageErrorReturnsHome(t *testing.T) {
	storageErr := types.NewStorageError("read", "movies.csv", errors.New("disk gone"))
	lib := &fakeLibrary{movies: &fakeMovies{listErr: storageErr}}

	out, err := runFake(t, lib, lines("demo", "demo123", "1", "q"))
	require.NoError(t, err)
	assert.Contains(t, out, "Error: read movies.csv: disk gone")
	assert.Contains(t, out, "Goodbye!")
}

func TestStorageErrorInDetailsReturnsHome(t *testing.T) {
	storageErr := types.NewStorageError("rewrite", "movies.csv", errors.New("read-only"))
	lib := &fakeLibrary{movies: &fakeMovies{
		list:      []types.Movie{{Username: "demo", Title: "Dune", Watched: "Y"}},
		deleteErr: storageErr,
	}}

	out, err := runFake(t, lib, lines("demo", "demo123", "1", "1", "d", "y", "q"))
	require.NoError(t, err)
	assert.Contains(t, out, "Error: rewrite movies.csv: read-only")
	assert.Contains(t, out, "=== Home ===")
	assert.Contains(t, out, "Goodbye!")
}

func TestNotFoundMessages(t *testing.T) {
	lib := &fakeLibrary{movies: &fakeMovies{
		list:      []types.Movie{{Username: "demo", Title: "Dune", Watched: "Y"}},
		updateErr: types.ErrNotFound,
		deleteErr: types.ErrNotFound,
	}}

	out, err := runFake(t, lib, lines(
		"demo", "demo123",
		"1", "1",
		"e", "", "", "", "", "", "", "y",
		"d", "y",
		"b", "q",
	))
	require.NoError(t, err)
	assert.Contains(t, out, "Update failed: movie not found.")
	assert.Contains(t, out, "Delete failed: movie not found.")
	assert.Equal(t, 2, lib.movies.listCalls)
}

func TestExpectedFailuresStayQuietAtDefaultLevel(t *testing.T) {
	var logs bytes.Buffer
	logger, err := logging.New(logging.DefaultLevel, &logs)
	require.NoError(t, err)

	lib := &fakeLibrary{movies: &fakeMovies{
		list:      []types.Movie{{Username: "demo", Title: "Dune", Watched: "Y"}},
		updateErr: types.ErrNotFound,
		deleteErr: types.ErrNotFound,
	}}
	s, err := New(lib, Options{
		In: strings.NewReader(lines(
			"demo", "nope",
			"demo", "demo123",
			"1", "1",
			"e", "", "", "", "", "", "", "y",
			"d", "y",
			"b", "q",
		)),
		Out:    io.Discard,
		Logger: logger,
	})
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
	assert.Empty(t, logs.String())
}

func TestCredentialLoadFailureEndsRun(t *testing.T) {
	storageErr := types.NewStorageError("read", "users.csv", errors.New("denied"))
	lib := &fakeLibrary{movies: &fakeMovies{}, users: fakeUsers{err: storageErr}}

	_, err := runFake(t, lib, lines("demo", "demo123"))
	assert.ErrorIs(t, err, types.ErrStorage)
}

func TestPasswordReaderIsUsed(t *testing.T) {
	lib := &fakeLibrary{movies: &fakeMovies{}}
	var out bytes.Buffer
	s, err := New(lib, Options{
		In:       strings.NewReader(lines("demo", "q")),
		Out:      &out,
		Password: func() (string, error) { return "demo123", nil },
	})
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, out.String(), "Login successful. Welcome, demo!")
}
