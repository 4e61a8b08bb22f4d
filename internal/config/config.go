// Package config loads generator settings from an optional kalamine.yaml,
// a .env file and KALAMINE_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/byte4ever/kalamine/descriptor"
)

// EnvPrefix prefixes every environment override, e.g.
// KALAMINE_AUTHOR or KALAMINE_OUT_DIR.
const EnvPrefix = "KALAMINE"

// Config holds generator settings.
type Config struct {
	// Author, License, URL and Geometry are descriptor
	// metadata defaults.
	Author   string `mapstructure:"author"`
	License  string `mapstructure:"license"`
	URL      string `mapstructure:"url"`
	Geometry string `mapstructure:"geometry"`

	// OutDir receives generated files.
	OutDir string `mapstructure:"out_dir"`

	// Parallelism bounds concurrent layout builds.
	Parallelism int `mapstructure:"parallelism"`

	// StampInfoFiles are KEY VALUE files whose values
	// replace {KEY} references in metadata.
	StampInfoFiles []string `mapstructure:"stamp_info_files"`
}

// Defaults returns the descriptor metadata defaults.
func (cfg *Config) Defaults() descriptor.Defaults {
	return descriptor.Defaults{
		Author:   cfg.Author,
		License:  cfg.License,
		Geometry: cfg.Geometry,
		URL:      cfg.URL,
	}
}

// Loader reads configuration. An empty File searches for
// kalamine.{yaml,yml,toml,json} in the working directory.
type Loader struct {
	File    string
	EnvFile string
}

func setDefaults(vp *viper.Viper) {
	def := descriptor.DefaultDefaults()

	vp.SetDefault("author", def.Author)
	vp.SetDefault("license", def.License)
	vp.SetDefault("url", def.URL)
	vp.SetDefault("geometry", def.Geometry)
	vp.SetDefault("out_dir", "dist")
	vp.SetDefault("parallelism", 4)
	vp.SetDefault("stamp_info_files", []string{})
}

// Load builds the configuration.
func (ld Loader) Load() (*Config, error) {
	const errCtx = "loading config"

	if err := loadEnvFile(ld.EnvFile); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	vp := viper.New()
	setDefaults(vp)

	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vp.AutomaticEnv()

	if ld.File != "" {
		vp.SetConfigFile(ld.File)
	} else {
		vp.SetConfigName("kalamine")
		vp.AddConfigPath(".")
	}

	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if ld.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	var cfg Config
	if err := vp.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", cfg.Parallelism)
	}

	if cfg.OutDir == "" {
		return errors.New("out_dir must not be empty")
	}

	return nil
}

// loadEnvFile loads path, or ./.env when path is empty.
// A missing default file is not an error. Variables
// already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}

		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return nil
}
