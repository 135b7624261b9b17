// Package session runs the interactive movie list as a finite state
// machine. Each state is one screen; a screen reads input, performs its
// operation against the library and names the next state.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/movielist/internal/auth"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

// Options configures a Session.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Logger   *logrus.Logger
	Password PasswordReader // nil reads the password as a normal line
}

// Session holds the state of one interactive run.
type Session struct {
	movies types.MovieTable
	users  types.UserTable
	out    io.Writer
	prompt *prompter
	log    *logrus.Entry

	id       string
	username string
	selected types.Movie
}

// New creates a session over an attached library.
func New(lib types.Library, opts Options) (*Session, error) {
	movies, err := lib.Movies()
	if err != nil {
		return nil, err
	}
	users, err := lib.Users()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	id := uuid.Must(uuid.NewV7()).String()
	return &Session{
		movies: movies,
		users:  users,
		out:    opts.Out,
		prompt: newPrompter(opts.In, opts.Out, opts.Password),
		log:    logger.WithField("session", id),
		id:     id,
	}, nil
}

// ID returns the session identifier used in log entries.
func (s *Session) ID() string {
	return s.id
}

// Username returns the logged-in user, or "" before login.
func (s *Session) Username() string {
	return s.username
}

// Run loads the credentials and drives the session until the user quits,
// input ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	users, err := s.users.Load()
	if err != nil {
		s.log.WithError(err).Error("loading credentials failed")
		return fmt.Errorf("loading credentials: %w", err)
	}
	s.log.WithField("users", len(users)).Debug("credentials loaded")

	s.prompt.ctx = ctx
	state := StateLogin
	for state != StateQuit {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := s.step(state, users)
		switch {
		case err == nil:
			if err := checkTransition(state, next); err != nil {
				return err
			}
		case ctx.Err() != nil:
			s.log.WithField("state", state).Info("session interrupted")
			return ctx.Err()
		case errors.Is(err, io.EOF):
			s.log.WithField("state", state).Info("input ended")
			next = StateQuit
		case errors.Is(err, types.ErrStorage):
			s.log.WithError(err).WithField("state", state).Error("storage failure")
			notice(s.out, fmt.Sprintf("Error: %v", err))
			next = StateHome
		default:
			return err
		}
		s.log.WithFields(logrus.Fields{"from": state, "to": next}).Debug("transition")
		state = next
	}
	return nil
}

func (s *Session) step(state State, users map[string]string) (State, error) {
	switch state {
	case StateLogin:
		return s.login(users)
	case StateHome:
		return s.home()
	case StateViewList:
		return s.viewList()
	case StateDetails:
		return s.details()
	case StateEdit:
		return s.edit()
	case StateAdd:
		return s.add()
	case StateDeleteList:
		return s.deleteList()
	default:
		return state, fmt.Errorf("%w: no screen for %s", ErrIllegalTransition, state)
	}
}

// login asks for credentials until they match.
func (s *Session) login(users map[string]string) (State, error) {
	printBanner(s.out)
	for {
		username, err := s.prompt.ask("Username: ")
		if err != nil {
			return StateQuit, err
		}
		password, err := s.prompt.askPassword("Password: ")
		if err != nil {
			return StateQuit, err
		}

		user, err := auth.Authenticate(users, username, password)
		if err == nil {
			s.username = user
			s.log = s.log.WithField("user", user)
			s.log.Info("login succeeded")
			notice(s.out, fmt.Sprintf("Login successful. Welcome, %s!", user))
			return StateHome, nil
		}
		s.log.WithField("user", username).Info("login failed")
		notice(s.out, "Login failed. Invalid username or password. Please try again.")
	}
}

func (s *Session) home() (State, error) {
	printHomeMenu(s.out)
	choice, err := s.prompt.askLower("Select a command: ")
	if err != nil {
		return StateQuit, err
	}
	switch choice {
	case "1":
		return StateViewList, nil
	case "2":
		return StateAdd, nil
	case "3":
		return StateDeleteList, nil
	case "q", "quit", "exit":
		s.log.Info("session ended")
		notice(s.out, "Goodbye!")
		return StateQuit, nil
	}
	notice(s.out, "Invalid command. Please choose 1, 2, 3, or Q.")
	return StateHome, nil
}
