package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	derrors "github.com/matzehuels/docnet/pkg/errors"
	"github.com/matzehuels/docnet/pkg/storage"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docnet.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[store]
backend = "memory"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, BackendMemory)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr = %q, want default", cfg.Redis.Addr)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("mongo uri = %q, want default", cfg.Mongo.URI)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"MissingFile", func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "absent.toml")
		}},
		{"BadSyntax", func(t *testing.T) string {
			return writeConfig(t, `[store`)
		}},
		{"UnknownBackend", func(t *testing.T) string {
			return writeConfig(t, "[store]\nbackend = \"carrier-pigeon\"\n")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path(t)); !derrors.Is(err, derrors.ErrCodeInvalidConfig) {
				t.Errorf("Load = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		cfg := Default()
		cfg.Store.Backend = BackendMemory
		b, err := cfg.OpenBackend(ctx)
		if err != nil {
			t.Fatalf("OpenBackend: %v", err)
		}
		defer b.Close()
		if _, ok := b.(*storage.Memory); !ok {
			t.Errorf("backend has type %T, want *storage.Memory", b)
		}
	})

	t.Run("File", func(t *testing.T) {
		cfg := Default()
		cfg.Store.Path = filepath.Join(t.TempDir(), "db.json")
		b, err := cfg.OpenBackend(ctx)
		if err != nil {
			t.Fatalf("OpenBackend: %v", err)
		}
		defer b.Close()

		if err := b.Store(ctx, []byte(`{}`)); err != nil {
			t.Fatalf("Store: %v", err)
		}
		if _, err := os.Stat(cfg.Store.Path); err != nil {
			t.Errorf("snapshot not written to configured path: %v", err)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		cfg := Default()
		cfg.Store.Backend = "carrier-pigeon"
		if _, err := cfg.OpenBackend(ctx); !derrors.Is(err, derrors.ErrCodeInvalidConfig) {
			t.Errorf("OpenBackend = %v, want INVALID_CONFIG", err)
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := Default()
	cfg.Log.Level = "error"
	logger := cfg.NewLogger(&buf)

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info logged at error level: %q", buf.String())
	}
	logger.Error("loud")
	if buf.Len() == 0 {
		t.Error("error message suppressed")
	}

	// Unknown levels fall back to info instead of failing.
	buf.Reset()
	cfg.Log.Level = "shout"
	cfg.NewLogger(&buf).Info("fallback")
	if buf.Len() == 0 {
		t.Error("info message suppressed after level fallback")
	}
}
