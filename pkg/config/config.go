// Package config loads docnet store configuration from TOML files and
// turns it into concrete collaborators: a snapshot backend and a logger.
//
// A minimal configuration file:
//
//	[store]
//	backend = "file"
//	path = "data/db.json"
//
//	[log]
//	level = "info"
//
// Redis and Mongo deployments add their sections:
//
//	[store]
//	backend = "redis"
//
//	[redis]
//	addr = "localhost:6379"
package config

import (
	"context"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	derrors "github.com/matzehuels/docnet/pkg/errors"
	"github.com/matzehuels/docnet/pkg/storage"
)

// Backend names accepted in [store] backend.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the root configuration document.
type Config struct {
	Store StoreConfig `toml:"store"`
	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
	Log   LogConfig   `toml:"log"`
}

// StoreConfig selects the snapshot backend.
type StoreConfig struct {
	Backend string `toml:"backend"` // file|memory|redis|mongo
	Path    string `toml:"path"`    // file backend: snapshot path
	Key     string `toml:"key"`     // redis backend: snapshot key
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// LogConfig configures the store logger.
type LogConfig struct {
	Level string `toml:"level"` // debug|info|warn|error
}

// Default returns the configuration used when a file omits a value:
// a file backend at docnet.json with info-level logging.
func Default() Config {
	return Config{
		Store: StoreConfig{Backend: BackendFile, Path: "docnet.json"},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Mongo: MongoConfig{URI: "mongodb://localhost:27017"},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads a TOML configuration file, overlaying it on [Default].
// Returns an INVALID_CONFIG error for unreadable files, TOML syntax errors
// or unknown backend names.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo:
		return nil
	default:
		return derrors.New(derrors.ErrCodeInvalidConfig,
			"unknown backend %q", c.Store.Backend)
	}
}

// OpenBackend constructs the snapshot backend the configuration selects.
// The caller owns the returned backend and must Close it.
func (c Config) OpenBackend(ctx context.Context) (storage.Backend, error) {
	switch c.Store.Backend {
	case BackendFile:
		return storage.NewFile(c.Store.Path), nil
	case BackendMemory:
		return storage.NewMemory(), nil
	case BackendRedis:
		return storage.NewRedis(ctx, storage.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Key:      c.Store.Key,
		})
	case BackendMongo:
		return storage.NewMongo(ctx, storage.MongoConfig{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		})
	default:
		return nil, derrors.New(derrors.ErrCodeInvalidConfig,
			"unknown backend %q", c.Store.Backend)
	}
}

// NewLogger builds a logger honoring the configured level.
// Unknown levels fall back to info. Timestamps are formatted as
// "HH:MM:SS.ms" (e.g., "14:32:01.45").
func (c Config) NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
