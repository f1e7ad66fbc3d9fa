package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lmeier/layermix/pkg/entity"
	"github.com/lmeier/layermix/pkg/layoutio"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	configPath string
	export     string // write resolved layouts as JSON to this path
}

// resolveCommand creates the resolve command, which runs the pipeline
// up to layout resolution and prints a summary. No image or font is
// touched, so it is a cheap validity check for the input tables.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve layouts from the input tables without rendering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default "+defaultConfigFile+")")
	cmd.Flags().StringVar(&opts.export, "export", "", "write resolved layouts as JSON to this file")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, opts *resolveOpts) error {
	layouts, stats, err := c.resolveLayouts(ctx, opts.configPath)
	if err != nil {
		printError("Resolve failed: %s", err)
		return err
	}

	printSuccess("Resolved %d layouts (%d canvases, %d image layers, %d text layers)",
		stats.Layouts, stats.Canvases, stats.Images, stats.Texts)
	fmt.Println(layoutTable(layouts))

	if opts.export != "" {
		if err := layoutio.ExportJSON(layouts, opts.export); err != nil {
			return err
		}
		printFile(opts.export)
	}
	return nil
}

// layoutTable renders the resolved layouts as a bordered summary table.
func layoutTable(layouts []entity.Layout) string {
	rows := make([][]string, len(layouts))
	for i, l := range layouts {
		images, texts := 0, 0
		for _, el := range l.Layers() {
			switch el.(type) {
			case entity.ImageElement:
				images++
			case entity.TextElement:
				texts++
			}
		}
		rows[i] = []string{
			l.OutputName(),
			l.Canvas().ID(),
			fmt.Sprintf("%dx%d", l.Canvas().Width(), l.Canvas().Height()),
			strconv.Itoa(images),
			strconv.Itoa(texts),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Output", "Canvas", "Size", "Images", "Texts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
