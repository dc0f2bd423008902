package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`server:
  port: 9090
database:
  path: data/test.db
  max_open_conns: 3
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Path != "data/test.db" {
		t.Errorf("database.path = %q, want data/test.db", cfg.Database.Path)
	}
	if cfg.Database.MaxOpenConns != 3 {
		t.Errorf("database.max_open_conns = %d, want 3", cfg.Database.MaxOpenConns)
	}

	// unset keys take their defaults
	if cfg.Server.Address != "127.0.0.1" {
		t.Errorf("server.address = %q, want default 127.0.0.1", cfg.Server.Address)
	}
	if cfg.Database.MaxIdleConns != 5 {
		t.Errorf("database.max_idle_conns = %d, want default 5", cfg.Database.MaxIdleConns)
	}
	if !cfg.Database.WALMode {
		t.Error("database.wal_mode: want default true")
	}
	if cfg.App.PageSize != 20 {
		t.Errorf("app.page_size = %d, want default 20", cfg.App.PageSize)
	}
	if cfg.Projection.MaxWindowDays != 1830 {
		t.Errorf("projection.max_window_days = %d, want default 1830", cfg.Projection.MaxWindowDays)
	}

	if Get() != cfg {
		t.Error("Get() does not return the loaded config")
	}
}
