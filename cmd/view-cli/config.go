package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-view/internal/datafile"
)

// Config mirrors view.yaml. Flags and VIEW_* environment variables override
// file values. Attribute keys keep the case they have in the file.
type Config struct {
	Root       string         `mapstructure:"root"`
	Layout     string         `mapstructure:"layout"`
	Attributes map[string]any `mapstructure:"attributes"`
	Verbose    bool           `mapstructure:"verbose"`
}

func defaultConfig() Config {
	return Config{
		Root: "views",
	}
}

func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	defaults := defaultConfig()
	v.SetDefault("root", defaults.Root)
	v.SetDefault("layout", defaults.Layout)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix("VIEW")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("view")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	attributes, err := fileAttributes(v.ConfigFileUsed())
	if err != nil {
		return Config{}, err
	}
	if attributes != nil {
		cfg.Attributes = attributes
	}
	return cfg, nil
}

// fileAttributes decodes the attributes mapping straight from a YAML or JSON
// config file. viper folds keys to lower case, which would turn siteName into
// sitename before it reaches a template.
func fileAttributes(path string) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, nil
	}

	doc, err := datafile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read config attributes: %w", err)
	}
	raw, ok := doc["attributes"]
	if !ok || raw == nil {
		return nil, nil
	}
	attributes, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("read config attributes: attributes must be a mapping, got %T", raw)
	}
	return attributes, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
