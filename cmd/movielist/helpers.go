// Shared helpers for movielist CLI commands.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/movielist/internal/logging"
	"github.com/mesh-intelligence/movielist/internal/session"
	"github.com/mesh-intelligence/movielist/pkg/movielist"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// classify picks the exit code for an error from the library or session.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrStorage):
		return sysError(err)
	case errors.Is(err, types.ErrInvalidValue),
		errors.Is(err, types.ErrAuthFailed),
		errors.Is(err, types.ErrSessionLocked),
		errors.Is(err, types.ErrBackendEmpty),
		errors.Is(err, types.ErrBackendUnknown):
		return userError(err)
	default:
		return sysError(err)
	}
}

// exitCode maps an error returned by Execute to a process exit code.
// Errors raised by cobra itself (bad flags, unknown commands) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// attachBackend creates the configured backend and attaches it. The caller
// must defer lib.Detach().
func attachBackend(cfg types.Config) (types.Library, error) {
	lib, err := movielist.NewBackend(cfg.Backend)
	if err != nil {
		return nil, userError(err)
	}
	if err := lib.Attach(cfg); err != nil {
		return nil, classify(fmt.Errorf("attach backend: %w", err))
	}
	return lib, nil
}

// newLogger builds the logger from settings. The returned func closes the
// log file when one is configured.
func newLogger(cmd *cobra.Command) (*logrus.Logger, func(), error) {
	logger, err := logging.New(settings.GetString(cfgKeyLogLevel), cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, userError(err)
	}
	path := settings.GetString(cfgKeyLogFile)
	if path == "" {
		return logger, func() {}, nil
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, sysError(err)
	}
	logger.SetOutput(f)
	return logger, func() { f.Close() }, nil
}

// passwordReader returns a no-echo reader when the command reads from a terminal.
func passwordReader(cmd *cobra.Command) session.PasswordReader {
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return session.TerminalPassword(f)
	}
	return nil
}

// saveTerminal records the terminal mode of the command's input. The
// returned func restores it, so a no-echo read abandoned on interrupt does
// not leave echo off. It is a no-op when input is not a terminal.
func saveTerminal(cmd *cobra.Command) func() {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}
	state, err := term.GetState(int(f.Fd()))
	if err != nil {
		return func() {}
	}
	return func() { _ = term.Restore(int(f.Fd()), state) }
}

// readSecret prompts on stderr and reads one line, without echo on a terminal.
func readSecret(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if read := passwordReader(cmd); read != nil {
		v, err := read()
		fmt.Fprintln(cmd.ErrOrStderr())
		return strings.TrimSpace(v), err
	}
	return readLine(in)
}

// readLine returns the next trimmed line. A final line without a newline
// is still returned.
func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
