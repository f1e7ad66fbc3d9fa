package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmeier/layermix/pkg/diagram"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	configPath string
	output     string // output file, empty writes DOT to stdout
	format     string // dot, svg, or png
	detailed   bool   // include geometry and content in labels
}

// inspectCommand creates the inspect command, which emits a diagram of
// how canvases and layers feed into each output.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Emit a composition diagram of the resolved layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateDiagramFormat(opts.format); err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default "+defaultConfigFile+")")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: DOT to stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "diagram format: dot (default), svg, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include geometry and content in labels")

	return cmd
}

// validateDiagramFormat checks that the format is dot, svg, or png.
func validateDiagramFormat(f string) error {
	switch f {
	case formatDOT, formatSVG, formatPNG:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", f)
	}
}

func (c *CLI) runInspect(ctx context.Context, opts *inspectOpts) error {
	layouts, _, err := c.resolveLayouts(ctx, opts.configPath)
	if err != nil {
		return err
	}

	dot := diagram.ToDOT(layouts, diagram.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		if data, err = diagram.RenderSVG(ctx, dot); err != nil {
			return err
		}
	case formatPNG:
		if data, err = diagram.RenderPNG(ctx, dot); err != nil {
			return err
		}
	}

	if opts.output == "" {
		if opts.format != formatDOT {
			return fmt.Errorf("--output is required for %s", opts.format)
		}
		fmt.Print(dot)
		return nil
	}

	path := opts.output
	if !strings.HasSuffix(path, "."+opts.format) {
		path += "." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printSuccess("Generated %s diagram for %d layouts", opts.format, len(layouts))
	printFile(path)
	return nil
}
