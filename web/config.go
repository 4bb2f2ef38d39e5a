package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the server configuration, read from a .sigil config file and
// SIGIL_* environment variables.
type Config struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// Views is the directory templates are read from.
	Views string `mapstructure:"views"`

	// SessionSecret signs session cookies. When empty, a random secret is
	// generated at startup, invalidating sessions across restarts.
	SessionSecret string `mapstructure:"session_secret"`
}

// LoadConfig reads configuration from dir: a .sigil YAML file, then a .env
// file, then SIGIL_* environment variables, each layer overriding the last.
// Missing files are not an error; defaults still apply.
func LoadConfig(dir string) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("views", "views")
	v.SetDefault("session_secret", "")

	v.SetEnvPrefix("sigil")
	v.AutomaticEnv()

	v.SetConfigName(".sigil")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config: %w", err)
		}
	}

	env := viper.New()
	env.SetConfigFile(filepath.Join(dir, ".env"))
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err == nil {
		if err := v.MergeConfigMap(env.AllSettings()); err != nil {
			return Config{}, fmt.Errorf("error merging env file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}

	if c.SessionSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return Config{}, fmt.Errorf("error generating session secret: %w", err)
		}
		c.SessionSecret = hex.EncodeToString(buf)
	}

	return c, nil
}
