package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmeier/layermix/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layermix.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[source]
type = "sqlite"
path = "project.db"

[source.tables]
layout = "layouts_v2"

[assets]
image_dir = "art"
font_file = "fonts/NotoSans.ttf"

[cache]
type = "redis"
url = "redis://localhost:6379/0"

[output]
dir = "renders"
format = "jpg"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Source.Type != SourceSQLite || cfg.Source.Path != "project.db" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Assets.ImageDir != "art" || cfg.Assets.FontFile != "fonts/NotoSans.ttf" {
		t.Errorf("assets = %+v", cfg.Assets)
	}
	if cfg.Cache.Type != CacheRedis || cfg.Cache.URL != "redis://localhost:6379/0" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Output.Dir != "renders" || cfg.Output.Format != "jpg" {
		t.Errorf("output = %+v", cfg.Output)
	}

	tables := cfg.TableNames()
	if tables.Layout != "layouts_v2" {
		t.Errorf("layout table = %q, want override", tables.Layout)
	}
	if tables.Canvas != "canvas" {
		t.Errorf("canvas table = %q, want default", tables.Canvas)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[assets]
image_dir = "art"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Source.Type != SourceCSV || cfg.Source.Path != "tables" {
		t.Errorf("source = %+v, want CSV defaults", cfg.Source)
	}
	if cfg.Output.Dir != "output" {
		t.Errorf("output dir = %q, want default", cfg.Output.Dir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeConfig(t, `[source` + "\n")
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "unknown source type",
			mutate:  func(c *Config) { c.Source.Type = "excel" },
			wantMsg: "unknown source type",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Source.Type = SourceSQLite; c.Source.Path = "" },
			wantMsg: "needs source.path",
		},
		{
			name:    "mongo without database",
			mutate:  func(c *Config) { c.Source.Type = SourceMongo; c.Source.URI = "mongodb://x" },
			wantMsg: "source.database",
		},
		{
			name:    "remote without url",
			mutate:  func(c *Config) { c.Source.Type = SourceRemote },
			wantMsg: "needs source.url",
		},
		{
			name:    "redis cache without url",
			mutate:  func(c *Config) { c.Cache.Type = CacheRedis },
			wantMsg: "cache.url",
		},
		{
			name:    "unknown cache type",
			mutate:  func(c *Config) { c.Cache.Type = "memcached" },
			wantMsg: "unknown cache type",
		},
		{
			name:    "empty output dir",
			mutate:  func(c *Config) { c.Output.Dir = "" },
			wantMsg: "output.dir",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %v, want message containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}
