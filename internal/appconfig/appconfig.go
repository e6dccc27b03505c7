// Package appconfig loads the application-wide settings file that
// carries favorite template shortcuts and default options.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
)

// EnvConfigPath overrides the settings file location when set.
const EnvConfigPath = "CARGO_GENERATE_CONFIG"

// Config is the application-wide settings file.
type Config struct {
	Defaults  Defaults            `mapstructure:"defaults"`
	Favorites map[string]Favorite `mapstructure:"favorites"`
}

// Defaults are options applied when the command line does not set
// them.
type Defaults struct {
	SSHIdentity string `mapstructure:"ssh_identity"`
}

// Favorite is a named template shortcut with optional pre-set values.
type Favorite struct {
	Description string         `mapstructure:"description"`
	Git         string         `mapstructure:"git"`
	Path        string         `mapstructure:"path"`
	Branch      string         `mapstructure:"branch"`
	Subfolder   string         `mapstructure:"subfolder"`
	Values      map[string]any `mapstructure:"values"`
}

// Load reads the settings file. An explicit path wins, then the
// CARGO_GENERATE_CONFIG environment variable, then the default
// location under the user's home directory. A missing file at the
// default location yields empty settings; a missing explicit file is
// an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	switch {
	case path != "":
		v.SetConfigFile(path)
	case os.Getenv(EnvConfigPath) != "":
		v.SetConfigFile(os.Getenv(EnvConfigPath))
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return &Config{}, nil
		}
		v.AddConfigPath(filepath.Join(home, ".cargo-generate"))
		v.SetConfigName("cargo-generate")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read application config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse application config: %w", err)
	}
	return &cfg, nil
}

// Favorite looks up a favorite by name.
func (c *Config) Favorite(name string) (Favorite, bool) {
	fav, ok := c.Favorites[name]
	return fav, ok
}

// FavoriteNames returns the favorite names sorted alphabetically.
func (c *Config) FavoriteNames() []string {
	names := make([]string, 0, len(c.Favorites))
	for name := range c.Favorites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
