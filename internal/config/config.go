// Package config loads the CLI's layered configuration: command-line
// flags override environment variables (MODSEQ_*), which override the
// modseq.yaml config file, which overrides built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the CLI needs to run the pipeline.
type Config struct {
	// Root is the directory scanned for mod folders.
	Root string `mapstructure:"root"`
	// APIVersion is the framework version checked against each
	// manifest's MinimumApiVersion.
	APIVersion string `mapstructure:"api_version"`
	// CompatDB is the path to a compatibility-database JSON document.
	// Empty means no database.
	CompatDB string `mapstructure:"compat_db"`
	Log      Log    `mapstructure:"log"`
}

// Log controls the CLI's slog backend.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from path, or from ./modseq.yaml when path is
// empty. A missing default config file is fine; a missing explicit one
// is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("root", "mods")
	v.SetDefault("api_version", "4.0.0")
	v.SetDefault("compat_db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("modseq")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("MODSEQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
