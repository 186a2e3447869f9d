// Package config loads the runtime settings shared by the poke services.
//
// Values come from built-in defaults, then an optional YAML file, then
// environment variables prefixed with the service name (POKEAPI_SERVER_PORT
// maps to server.port). A `.env` file in the working directory is loaded
// into the environment first.
package config

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jbweber/homelab/poke/internal/datastore"
	"github.com/jbweber/homelab/poke/internal/migrations"
)

// Config holds all configuration for one poke service
type Config struct {
	Service  string         `koanf:"-"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Log      LogConfig      `koanf:"log" validate:"required"`
	Auth     AuthConfig     `koanf:"auth"`
}

// ServerConfig groups the HTTP listener settings
type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig points at the SQLite file
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LogConfig controls the zerolog output
type LogConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"required,oneof=console json"`
}

// AuthConfig holds credential hashing settings
type AuthConfig struct {
	BcryptCost int `koanf:"bcrypt_cost" validate:"min=4,max=31"`
}

// NewConfig creates a new Config with default values
func NewConfig(service, port string) *Config {
	return &Config{
		Service: service,
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Path: fmt.Sprintf("~/poke/data/%s.db", service),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Auth: AuthConfig{
			BcryptCost: 12,
		},
	}
}

// Load builds the configuration for service. path names an optional YAML
// file; an empty path skips it.
func Load(service, port, path string) (*Config, error) {
	cfg := NewConfig(service, port)
	k := koanf.New(".")

	if path != "" {
		if err := cfg.loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(k); err != nil {
		return nil, err
	}

	// Keys absent from both layers keep their defaults
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode %s config: %w", service, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnvPrefix returns the environment variable prefix for this service
func (c *Config) EnvPrefix() string {
	return strings.ToUpper(c.Service) + "_"
}

// Validate checks the struct tags on every section
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid %s config: %w", c.Service, err)
	}
	return nil
}

func (c *Config) loadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(c.expandPath(path)), yaml.Parser()); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return fmt.Errorf("read config: %w", err)
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) loadEnv(k *koanf.Koanf) error {
	prefix := c.EnvPrefix()

	// Only the first underscore separates section from key, so
	// SERVER_READ_TIMEOUT becomes server.read_timeout.
	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, prefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return fmt.Errorf("load %s environment: %w", c.Service, err)
	}
	return nil
}

// OpenDatabase opens the configured database without migrating it
func (c *Config) OpenDatabase() (*sql.DB, error) {
	dbPath := c.expandPath(c.Database.Path)

	// Ensure database directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so they go in the DSN
	db, err := sql.Open(datastore.DriverName, dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply performance optimizations
	OptimizeDatabaseConnection(db)

	if err := ApplyPragmaOptimizations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply performance optimizations: %w", err)
	}

	return db, nil
}

// InitializeDatabase opens the database and applies every pending migration
func (c *Config) InitializeDatabase(migs []migrations.Migration) (*sql.DB, error) {
	db, err := c.OpenDatabase()
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db, migs); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// expandPath expands ~ to home directory
func (c *Config) expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Return original path if we can't get home dir
		return path
	}

	return filepath.Join(homeDir, path[2:])
}

// RunMigrations applies migs to db
func RunMigrations(db *sql.DB, migs []migrations.Migration) error {
	migrator := migrations.NewMigrator(db)
	for _, migration := range migs {
		migrator.AddMigration(migration)
	}
	return migrator.RunMigrations()
}
