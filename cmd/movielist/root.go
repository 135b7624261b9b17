package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/movielist/internal/paths"
	"github.com/mesh-intelligence/movielist/pkg/movielist"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagBackend   string
	flagLogLevel  string
)

// settings holds config.yaml merged with env and flags. Set by
// PersistentPreRunE so all subcommands can use it.
var settings *viper.Viper

// newRootCmd builds the command tree. Flags bind to the package globals,
// so each call resets them.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "movielist",
		Short:   "Keep a personal list of movies",
		Long:    "movielist is a single-user terminal app for keeping track of movies\nyou have watched or want to watch. Data lives in users.csv and movies.csv.",
		Version: movielist.Version,
		Args:    cobra.NoArgs,
		// Errors are printed once by main with the exit code.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine.
			_ = godotenv.Load()

			configDir, err := resolveConfigDir()
			if err != nil {
				return sysError(err)
			}
			v, err := loadConfig(configDir)
			if err != nil {
				return sysError(err)
			}
			if cmd.Flags().Changed("backend") {
				v.Set(cfgKeyBackend, flagBackend)
			}
			if cmd.Flags().Changed("log-level") {
				v.Set(cfgKeyLogLevel, flagLogLevel)
			}
			settings = v
			return nil
		},
		RunE: runSession,
	}

	flagConfigDir, flagDataDir, flagBackend, flagLogLevel = "", "", "", ""
	root.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: <user config dir>/movielist)")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding users.csv and movies.csv (default: current directory)")
	root.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: csv or sqlite (default: csv)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newHashPasswordCmd())

	return root
}

// resolveDataDir returns the data directory path following the precedence:
// --data-dir flag > config.yaml data_dir > MOVIELIST_DATA_DIR env > current directory.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, settings.GetString(cfgKeyDataDir))
}

// resolveConfigDir returns the configuration directory following the precedence:
// --config-dir flag > MOVIELIST_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
