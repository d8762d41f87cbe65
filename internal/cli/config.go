package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds optional CLI defaults loaded from the config file.
type Config struct {
	// Username is the default PyPI username used when a command is run
	// without one.
	Username string `toml:"username"`
}

// configPath returns the config file location using the XDG standard
// ($XDG_CONFIG_HOME/pypi-extractor/config.toml, falling back to
// ~/.config/pypi-extractor/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file. A missing file is not an error; it
// yields a zero Config.
func loadConfig() (Config, error) {
	var cfg Config
	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// resolveUsername picks the username for a command: positional argument
// first, then the --user flag, then the config file default.
func resolveUsername(args []string, userFlag string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if userFlag != "" {
		return userFlag, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Username != "" {
		return cfg.Username, nil
	}
	return "", fmt.Errorf("no username given: pass one as an argument, use --user, or set username in the config file")
}
