package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmeier/layermix/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	configPath string // config file path (default layermix.toml)
	outputDir  string // output directory override
	format     string // encoding for names without an extension
	only       string // comma-separated output names to render
	workers    int    // concurrent renders, 0 = one per CPU
	noCache    bool   // skip the asset cache
	pick       bool   // select layouts interactively
}

// renderCommand creates the render command, which runs the full
// pipeline: load tables, parse, resolve, composite, write files.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Composite every layout into an image file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default "+defaultConfigFile+")")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for rendered images")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "encoding for output names without an extension: png (default), jpg, gif, bmp, tiff")
	cmd.Flags().StringVar(&opts.only, "only", "", "render only the named outputs (comma-separated)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent renders (default: one per CPU)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the asset cache")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "select layouts interactively")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	runner := c.newRunner()
	pipeOpts := pipeline.Options{
		Config:    cfg,
		OutputDir: opts.outputDir,
		Format:    opts.format,
		Only:      splitList(opts.only),
		Workers:   opts.workers,
		NoCache:   opts.noCache,
		Logger:    c.Logger,
	}

	if opts.pick {
		picked, err := c.pickOutputs(ctx, runner, pipeOpts)
		if err != nil {
			return err
		}
		if len(picked) == 0 {
			printInfo("Nothing selected")
			return nil
		}
		pipeOpts.Only = picked
	}

	p := newProgress(c.Logger)
	result, err := runner.Run(ctx, pipeOpts)
	if err != nil {
		printError("Render failed: %s", err)
		return err
	}
	p.done(fmt.Sprintf("Rendered %d outputs", result.Stats.Rendered))

	printSuccess("Rendered %d of %d layouts", result.Stats.Rendered, result.Stats.Layouts)
	for _, out := range result.Outputs {
		printFile(out.Path)
	}
	return nil
}

// splitList parses a comma-separated flag value into a slice.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
