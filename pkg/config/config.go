// Package config loads the layermix.toml project file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lmeier/layermix/pkg/errors"
	"github.com/lmeier/layermix/pkg/tabular"
)

// Source types accepted in [source].
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
	SourceMongo  = "mongo"
	SourceRemote = "remote"
)

// Cache backends accepted in [cache].
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full project file.
type Config struct {
	Source Source `toml:"source"`
	Assets Assets `toml:"assets"`
	Cache  Cache  `toml:"cache"`
	Output Output `toml:"output"`
}

// Source selects where the input tables come from.
type Source struct {
	Type string `toml:"type"`

	// Path is the CSV directory or the SQLite database file.
	Path string `toml:"path"`

	// URI and Database address a MongoDB deployment.
	URI      string `toml:"uri"`
	Database string `toml:"database"`

	// URL is a remote CSV template containing {table}.
	URL string `toml:"url"`

	// Tables remaps logical table names; empty entries keep defaults.
	Tables TableNames `toml:"tables"`
}

// TableNames overrides the default table names per logical role.
type TableNames struct {
	Canvas string `toml:"canvas"`
	Image  string `toml:"image"`
	Text   string `toml:"text"`
	Layout string `toml:"layout"`
}

// Assets locates layer inputs on disk.
type Assets struct {
	// ImageDir is joined with each image layer's file name.
	ImageDir string `toml:"image_dir"`

	// FontFile applies to every text layer. Empty picks the built-in
	// default face.
	FontFile string `toml:"font_file"`
}

// Cache selects the cache backend for remote fetches.
type Cache struct {
	Type string `toml:"type"`
	Dir  string `toml:"dir"`
	URL  string `toml:"url"`
}

// Output controls where rendered images land.
type Output struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
}

// Default returns a Config for the common case: CSV tables in
// ./tables, images in ./images, output in ./output.
func Default() Config {
	return Config{
		Source: Source{Type: SourceCSV, Path: "tables"},
		Assets: Assets{ImageDir: "images"},
		Cache:  Cache{Type: CacheFile},
		Output: Output{Dir: "output"},
	}
}

// Load reads path and validates the result. A missing file is an
// error; callers that allow running without a config use Default.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s cannot be read", path)
	}
	cfg := Default()
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s cannot be parsed", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c Config) Validate() error {
	switch c.Source.Type {
	case SourceCSV, SourceSQLite:
		if c.Source.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source type %q needs source.path", c.Source.Type)
		}
	case SourceMongo:
		if c.Source.URI == "" || c.Source.Database == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source type mongo needs source.uri and source.database")
		}
	case SourceRemote:
		if c.Source.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source type remote needs source.url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source type %q", c.Source.Type)
	}

	switch c.Cache.Type {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache type redis needs cache.url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache type %q", c.Cache.Type)
	}

	if c.Output.Dir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output.dir is empty")
	}
	return nil
}

// TableNames returns the configured names with defaults filled in.
func (c Config) TableNames() tabular.Tables {
	t := tabular.DefaultTables()
	if c.Source.Tables.Canvas != "" {
		t.Canvas = c.Source.Tables.Canvas
	}
	if c.Source.Tables.Image != "" {
		t.Image = c.Source.Tables.Image
	}
	if c.Source.Tables.Text != "" {
		t.Text = c.Source.Tables.Text
	}
	if c.Source.Tables.Layout != "" {
		t.Layout = c.Source.Tables.Layout
	}
	return t
}
