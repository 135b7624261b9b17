// Config loading for the movielist CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/movielist/internal/logging"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "MOVIELIST"

	// Config keys.
	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyUsersFile  = "users_file"
	cfgKeyMoviesFile = "movies_file"
	cfgKeyLogLevel   = "log_level"
	cfgKeyLogFile    = "log_file"
)

// envKeys are read from MOVIELIST_<KEY>. data_dir is left to
// paths.ResolveDataDir so config.yaml keeps precedence over the env.
var envKeys = []string{cfgKeyBackend, cfgKeyUsersFile, cfgKeyMoviesFile, cfgKeyLogLevel, cfgKeyLogFile}

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir,omitempty"`
	UsersFile  string `yaml:"users_file"`
	MoviesFile string `yaml:"movies_file"`
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file,omitempty"`
}

const configHeader = "# movielist configuration\n# data_dir and log_file are optional; data_dir defaults to the current directory.\n"

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendCSV)
	v.SetDefault(cfgKeyUsersFile, types.DefaultUsersFile)
	v.SetDefault(cfgKeyMoviesFile, types.DefaultMoviesFile)
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		Backend:    types.BackendCSV,
		UsersFile:  types.DefaultUsersFile,
		MoviesFile: types.DefaultMoviesFile,
		LogLevel:   logging.DefaultLevel,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}

// libraryConfig builds the backend Config from settings and validates it.
func libraryConfig() (types.Config, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg := types.Config{
		Backend:    strings.ToLower(strings.TrimSpace(settings.GetString(cfgKeyBackend))),
		DataDir:    dataDir,
		UsersFile:  settings.GetString(cfgKeyUsersFile),
		MoviesFile: settings.GetString(cfgKeyMoviesFile),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("backend %q: %w", cfg.Backend, err)
	}
	return cfg, nil
}
