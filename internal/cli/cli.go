// Package cli implements the layermix command-line interface.
//
// This package provides commands for rendering image compositions from
// tabular layout definitions, inspecting resolved layouts, serving
// previews over HTTP, and managing the asset cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - render: Composite every layout into a raster image file
//   - resolve: Load and resolve layouts without rendering
//   - inspect: Emit a composition diagram (DOT, SVG, or PNG)
//   - serve: Serve resolved layouts and on-demand renders over HTTP
//   - cache: Manage the asset cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lmeier/layermix/pkg/buildinfo"
	"github.com/lmeier/layermix/pkg/config"
	"github.com/lmeier/layermix/pkg/entity"
	"github.com/lmeier/layermix/pkg/pipeline"
)

const (
	// appName is the application name used for directories and display.
	appName = "layermix"

	// defaultConfigFile is looked up in the working directory when
	// --config is not given.
	defaultConfigFile = "layermix.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Layermix composites layered images from tabular layouts",
		Long:         `Layermix is a CLI tool that reads canvas, layer, and layout tables from CSV files, databases, or remote exports and composites them into raster images.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	return &pipeline.Runner{CacheDir: dir}
}

// resolveLayouts runs the pipeline up to layout resolution, shared by
// the resolve, inspect, and serve commands.
func (c *CLI) resolveLayouts(ctx context.Context, configPath string) ([]entity.Layout, *pipeline.Stats, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return c.newRunner().Resolve(ctx, pipeline.Options{Config: cfg, Logger: c.Logger})
}

// loadConfig reads the config file, falling back to built-in defaults
// when the default file is absent and no explicit path was given.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); os.IsNotExist(err) {
			return config.Default(), nil
		}
		path = defaultConfigFile
	}
	return config.Load(path)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/layermix/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
