// Package diagram visualizes resolved layouts as composition graphs:
// each output points at its canvas and at the layers stacked onto it,
// in paint order. Useful for reviewing a layout table before spending
// time on a full render.
package diagram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/lmeier/layermix/pkg/entity"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes geometry and content in node labels. When
	// false, only IDs are shown.
	Detailed bool
}

// ToDOT converts layouts to Graphviz DOT. Canvases are ellipses,
// outputs are bold boxes, image layers are plain boxes, text layers
// are note shapes. Edge labels carry the stacking position.
func ToDOT(layouts []entity.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	canvases := map[string]entity.Canvas{}
	layers := map[string]entity.Layer{}
	for _, l := range layouts {
		canvases[l.Canvas().ID()] = l.Canvas()
		for _, el := range l.Layers() {
			layers[el.LayerID()] = el
		}
	}

	for id, cv := range canvases {
		fmt.Fprintf(&buf, "  %q [shape=ellipse, label=%q];\n",
			canvasNode(id), canvasLabel(cv, opts.Detailed))
	}
	for id, el := range layers {
		fmt.Fprintf(&buf, "  %q [%s];\n", layerNode(id), strings.Join(layerAttrs(el, opts.Detailed), ", "))
	}
	for _, l := range layouts {
		fmt.Fprintf(&buf, "  %q [style=\"rounded,filled,bold\", fillcolor=lightyellow];\n", l.OutputName())
	}

	buf.WriteString("\n")
	for _, l := range layouts {
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", canvasNode(l.Canvas().ID()), l.OutputName())
		for i, el := range l.Layers() {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", layerNode(el.LayerID()), l.OutputName(), i+1)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Node name prefixes keep canvas and layer IDs from colliding with
// output names in the graph.
func canvasNode(id string) string { return "canvas:" + id }

func layerNode(id string) string { return "layer:" + id }

func canvasLabel(cv entity.Canvas, detailed bool) string {
	if !detailed {
		return cv.ID()
	}
	return fmt.Sprintf("%s\n%dx%d", cv.ID(), cv.Width(), cv.Height())
}

func layerAttrs(el entity.Layer, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", layerLabel(el, detailed))}
	if _, ok := el.(entity.TextElement); ok {
		attrs = append(attrs, "shape=note", "fillcolor=lightcyan")
	}
	return attrs
}

func layerLabel(el entity.Layer, detailed bool) string {
	if !detailed {
		return el.LayerID()
	}
	x, y := el.Position()
	switch v := el.(type) {
	case entity.ImageElement:
		return fmt.Sprintf("%s\n%dx%d @ (%d,%d)", v.LayerID(), v.Width(), v.Height(), x, y)
	case entity.TextElement:
		// Truncate on runes so multi-byte text stays valid UTF-8.
		text := v.Text()
		if runes := []rune(text); len(runes) > 20 {
			text = string(runes[:20]) + "…"
		}
		return fmt.Sprintf("%s\n%q @ (%d,%d)", v.LayerID(), text, x, y)
	default:
		return el.LayerID()
	}
}

// RenderSVG renders a DOT graph to SVG in process.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG renders a DOT graph to PNG in process.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
