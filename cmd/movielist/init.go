// Init command for the movielist CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and the movie stores",
		Long: `Init creates the configuration directory with a default config.yaml and
creates users.csv (seeded with the demo accounts) and movies.csv in the data
directory when they are missing. Existing files are left untouched.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	// PersistentPreRunE already ensured the config directory and config.yaml.
	configDir, err := resolveConfigDir()
	if err != nil {
		return sysError(err)
	}

	cfg, err := libraryConfig()
	if err != nil {
		return userError(err)
	}
	lib, err := attachBackend(cfg)
	if err != nil {
		return err
	}
	if err := lib.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "movielist initialized successfully")
	fmt.Fprintln(out, "  config:", configDir)
	fmt.Fprintln(out, "  users: ", cfg.UsersPath())
	fmt.Fprintln(out, "  movies:", cfg.MoviesPath())
	return nil
}
