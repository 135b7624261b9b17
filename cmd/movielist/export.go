// Export command prints the logged-in user's movies as JSON, YAML or TOML.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/movielist/internal/auth"
	"github.com/mesh-intelligence/movielist/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		format   string
		username string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print your movies in a machine-readable format",
		Long: `Export logs in and writes the user's movies to stdout in file order.

The password is read from stdin; on a terminal it is not echoed.

Example:
  movielist export --user alice --format yaml
  printf 'password\n' | movielist export --user alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, username, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "output format: "+strings.Join(export.Formats(), ", "))
	cmd.Flags().StringVarP(&username, "user", "u", "", "username to log in as")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runExport(cmd *cobra.Command, username, format string) error {
	if !exportable(format) {
		return userError(fmt.Errorf("%w %q (want one of %s)", export.ErrUnknownFormat, format, strings.Join(export.Formats(), ", ")))
	}

	cfg, err := libraryConfig()
	if err != nil {
		return userError(err)
	}
	lib, err := attachBackend(cfg)
	if err != nil {
		return err
	}
	defer lib.Detach()

	users, err := lib.Users()
	if err != nil {
		return sysError(err)
	}
	creds, err := users.Load()
	if err != nil {
		return classify(err)
	}

	password, err := readSecret(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: ")
	if err != nil {
		return userError(fmt.Errorf("read password: %w", err))
	}
	user, err := auth.Authenticate(creds, username, password)
	if err != nil {
		return userError(err)
	}

	movies, err := lib.Movies()
	if err != nil {
		return sysError(err)
	}
	list, err := movies.ListForUser(user)
	if err != nil {
		return classify(err)
	}

	if err := export.Encode(cmd.OutOrStdout(), format, list); err != nil {
		return sysError(err)
	}
	return nil
}

// exportable reports whether Encode supports format.
func exportable(format string) bool {
	for _, f := range export.Formats() {
		if strings.EqualFold(f, strings.TrimSpace(format)) {
			return true
		}
	}
	return false
}
