// Package config provides functionality for managing configuration options
// for the application using a YAML file, environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Parse,
// e.g. GACHA_ADDRESS or GACHA_DATABASE_DSN.
const EnvPrefix = "GACHA_"

// Storage backends.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `koanf:"address" validate:"required"`

	// Storage selects the dataset backend: file, postgres or sqlite.
	Storage string `koanf:"storage" validate:"oneof=file postgres sqlite"`

	// DataFile is the JSON document for the file backend, or the database
	// file for the sqlite backend.
	DataFile string `koanf:"data_file" validate:"required_unless=Storage postgres"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `koanf:"database_dsn" validate:"required_if=Storage postgres"`

	// AssetsDir is where uploaded images are kept.
	AssetsDir string `koanf:"assets_dir" validate:"required"`

	// StaticDir, when set, is served at "/".
	StaticDir string `koanf:"static_dir"`

	// MaxUploadBytes limits image uploads.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// SweepInterval is how often unreferenced images are removed; 0 disables it.
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"gte=0"`

	// SweepGrace keeps recently uploaded images even when unreferenced.
	SweepGrace time.Duration `koanf:"sweep_grace" validate:"gte=0"`

	// LogLevel is passed to the zap logger.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// Config is the path to the YAML config file.
	Config string `koanf:"config"`
}

// newFlagSet declares every flag with its default value.
func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("gacha", pflag.ContinueOnError)
	flags.StringP("address", "a", "localhost:3000", "run on ip:port server")
	flags.String("storage", StorageFile, "dataset backend: file | postgres | sqlite")
	flags.String("data_file", "data.json", "dataset file (file and sqlite backends)")
	flags.StringP("database_dsn", "d", "", "postgres connection string")
	flags.String("assets_dir", "public/assets", "directory for uploaded images")
	flags.String("static_dir", "", "directory served at / (optional)")
	flags.Int64("max_upload_bytes", 10<<20, "maximum image upload size in bytes")
	flags.Duration("sweep_interval", time.Hour, "interval between unreferenced image sweeps (0 disables)")
	flags.Duration("sweep_grace", 24*time.Hour, "minimum age of an unreferenced image before it is removed")
	flags.String("log_level", "info", "log level: debug | info | warn | error")
	flags.StringP("config", "c", "config.yaml", "path to config file")
	return flags
}

// envKey maps GACHA_DATABASE_DSN to database_dsn.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// Parse parses args (without the program name), a .env file if present,
// the environment and the YAML config file into Options.
func Parse(args []string) (*Options, error) {
	// .env is optional
	_ = godotenv.Load()

	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	configPath, _ := flags.GetString("config")
	if v := os.Getenv(EnvPrefix + "CONFIG"); v != "" && !flags.Changed("config") {
		configPath = v
	}

	k := koanf.New(".")
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error while reading environment: %w", err)
	}

	// Unchanged flags only fill keys no other source set.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("error while reading flags: %w", err)
	}

	var opts Options
	if err := k.Unmarshal("", &opts); err != nil {
		return nil, fmt.Errorf("error while decoding config: %w", err)
	}
	opts.Config = configPath
	opts.LogLevel = strings.ToLower(opts.LogLevel)

	if err := validator.New().Struct(&opts); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &opts, nil
}
