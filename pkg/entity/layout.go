package entity

import (
	"github.com/lmeier/layermix/pkg/errors"
)

// Layout is the unit of rendering: one canvas, an ordered stack of layers
// (first-to-last is bottom-to-top) and an output identifier used verbatim as
// the rendered artifact's name.
type Layout struct {
	canvas     Canvas
	outputName string
	layers     []Layer
}

// NewLayout validates and constructs a Layout. The layer slice is copied so
// later mutation of the argument cannot reach into the Layout.
func NewLayout(canvas Canvas, outputName string, layers []Layer) (Layout, error) {
	if outputName == "" {
		return Layout{}, errors.New(errors.ErrCodeInvalidEntity, "output_name cannot be empty")
	}
	if canvas.ID() == "" {
		return Layout{}, errors.New(errors.ErrCodeInvalidEntity, "layout %q: canvas cannot be empty", outputName)
	}
	if len(layers) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidEntity, "layout %q: layers cannot be empty", outputName)
	}
	for i, l := range layers {
		if l == nil {
			return Layout{}, errors.New(errors.ErrCodeInvalidEntity, "layout %q: layer %d is nil", outputName, i)
		}
	}
	copied := make([]Layer, len(layers))
	copy(copied, layers)
	return Layout{canvas: canvas, outputName: outputName, layers: copied}, nil
}

// Canvas returns the canvas this layout renders onto.
func (l Layout) Canvas() Canvas { return l.canvas }

// OutputName returns the caller-facing identifier of the rendered artifact.
func (l Layout) OutputName() string { return l.outputName }

// Layers returns the layer stack in render order (bottom to top).
// The returned slice must not be modified.
func (l Layout) Layers() []Layer { return l.layers }
