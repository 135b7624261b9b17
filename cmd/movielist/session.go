// Root command action: the interactive session.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/movielist/internal/session"
)

func runSession(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := libraryConfig()
	if err != nil {
		return userError(err)
	}

	lock, err := session.AcquireLock(cfg.DataDir)
	if err != nil {
		return classify(err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.WithError(err).Warn("failed to release session lock")
		}
	}()

	lib, err := attachBackend(cfg)
	if err != nil {
		return err
	}
	defer lib.Detach()

	s, err := session.New(lib, session.Options{
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
		Logger:   logger,
		Password: passwordReader(cmd),
	})
	if err != nil {
		return sysError(err)
	}

	restore := saveTerminal(cmd)
	defer restore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Hand signals back once the session is cancelled; a second Ctrl+C
	// then terminates the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	logger.WithFields(logrus.Fields{
		"session": s.ID(),
		"backend": cfg.Backend,
		"data":    cfg.DataDir,
		"lock":    lock.Path(),
	}).Info("session started")

	if err := s.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		}
		return classify(err)
	}
	return nil
}
