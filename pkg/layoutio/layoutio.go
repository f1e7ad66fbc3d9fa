// Package layoutio serializes resolved layouts as JSON, for piping a
// resolve run into other tools or re-importing it later.
package layoutio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lmeier/layermix/pkg/entity"
)

// Layer kinds in the JSON format.
const (
	kindImage = "image"
	kindText  = "text"
)

type document struct {
	Layouts []layout `json:"layouts"`
}

type layout struct {
	OutputName string `json:"output_name"`
	Canvas     canvas `json:"canvas"`
	Layers     []layer `json:"layers"`
}

type canvas struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type layer struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`

	// Image fields.
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	SourcePath string `json:"source_path,omitempty"`

	// Text fields.
	FontSize int    `json:"font_size,omitempty"`
	FontFile string `json:"font_file,omitempty"`
	ColorR   int    `json:"color_r,omitempty"`
	ColorG   int    `json:"color_g,omitempty"`
	ColorB   int    `json:"color_b,omitempty"`
	Text     string `json:"text,omitempty"`
}

// WriteJSON encodes layouts as indented JSON to w. The output can be
// re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(layouts []entity.Layout, w io.Writer) error {
	doc := document{Layouts: make([]layout, len(layouts))}
	for i, l := range layouts {
		out := layout{
			OutputName: l.OutputName(),
			Canvas: canvas{
				ID:     l.Canvas().ID(),
				Width:  l.Canvas().Width(),
				Height: l.Canvas().Height(),
			},
			Layers: make([]layer, len(l.Layers())),
		}
		for j, el := range l.Layers() {
			out.Layers[j] = encodeLayer(el)
		}
		doc.Layouts[i] = out
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes layouts to a JSON file at path.
func ExportJSON(layouts []entity.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(layouts, f)
}

// ReadJSON decodes layouts previously written by [WriteJSON]. Every
// layer goes back through the entity constructors, so invalid data in
// the file fails the same way invalid table cells do.
func ReadJSON(r io.Reader) ([]entity.Layout, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	layouts := make([]entity.Layout, len(doc.Layouts))
	for i, in := range doc.Layouts {
		cv, err := entity.NewCanvas(in.Canvas.ID, in.Canvas.Width, in.Canvas.Height)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", in.OutputName, err)
		}
		layers := make([]entity.Layer, len(in.Layers))
		for j, el := range in.Layers {
			layers[j], err = decodeLayer(el)
			if err != nil {
				return nil, fmt.Errorf("layout %q: %w", in.OutputName, err)
			}
		}
		layouts[i], err = entity.NewLayout(cv, in.OutputName, layers)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", in.OutputName, err)
		}
	}
	return layouts, nil
}

// ImportJSON reads layouts from a JSON file at path.
func ImportJSON(path string) ([]entity.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func encodeLayer(el entity.Layer) layer {
	x, y := el.Position()
	out := layer{ID: el.LayerID(), X: x, Y: y}
	switch v := el.(type) {
	case entity.ImageElement:
		out.Kind = kindImage
		out.Width = v.Width()
		out.Height = v.Height()
		out.SourcePath = v.SourcePath()
	case entity.TextElement:
		out.Kind = kindText
		out.FontSize = v.FontSize()
		out.FontFile = v.FontFile()
		out.ColorR, out.ColorG, out.ColorB = v.RGB()
		out.Text = v.Text()
	}
	return out
}

func decodeLayer(in layer) (entity.Layer, error) {
	switch in.Kind {
	case kindImage:
		el, err := entity.NewImageElement(in.ID, in.X, in.Y, in.Width, in.Height, in.SourcePath)
		if err != nil {
			return nil, err
		}
		return el, nil
	case kindText:
		el, err := entity.NewTextElement(in.ID, in.X, in.Y, in.FontSize, in.FontFile,
			in.ColorR, in.ColorG, in.ColorB, in.Text)
		if err != nil {
			return nil, err
		}
		return el, nil
	default:
		return nil, fmt.Errorf("unknown layer kind %q", in.Kind)
	}
}
