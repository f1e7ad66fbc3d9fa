// Package pipeline wires the full run: load tables, parse entities,
// resolve layouts, render rasters, write files.
package pipeline

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/lmeier/layermix/pkg/config"
	"github.com/lmeier/layermix/pkg/errors"
)

// Options configures a single run.
type Options struct {
	// Config selects the table source, asset locations, and output.
	Config config.Config

	// OutputDir overrides Config.Output.Dir when non-empty.
	OutputDir string

	// Format overrides Config.Output.Format when non-empty. It is
	// applied to output names that carry no recognized extension.
	Format string

	// Only restricts rendering to the named outputs. Empty renders
	// everything the layout table resolves.
	Only []string

	// Workers bounds concurrent renders. Zero means one per CPU.
	Workers int

	// NoCache disables the cache for this run.
	NoCache bool

	// Logger receives per-stage progress. Nil discards output.
	Logger *log.Logger
}

// ValidateAndSetDefaults fills zero values and rejects nonsense.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.OutputDir == "" {
		o.OutputDir = o.Config.Output.Dir
	}
	if o.Format == "" {
		o.Format = o.Config.Output.Format
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o.Config.Validate()
}
