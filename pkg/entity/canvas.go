// Package entity defines the immutable domain values LayerMix renders from:
// canvases, image and text layers, and layouts.
//
// Every entity is validated on construction and never mutated afterwards;
// invalid states are unrepresentable. Validation failures carry the
// INVALID_ENTITY code and name the offending field.
//
// Layer polymorphism is a closed variant: the [Layer] interface has an
// unexported marker method, so [ImageElement] and [TextElement] are the only
// possible implementations. Consumers switch over the two concrete types and
// treat any other value as an internal error; adding a new layer kind is a
// deliberate change to this package and to every switch.
package entity

import (
	"github.com/lmeier/layermix/pkg/errors"
)

// Canvas is a named rectangular output surface with fixed pixel dimensions.
type Canvas struct {
	id     string
	width  int
	height int
}

// NewCanvas validates and constructs a Canvas.
func NewCanvas(id string, width, height int) (Canvas, error) {
	if id == "" {
		return Canvas{}, errors.New(errors.ErrCodeInvalidEntity, "canvas_id cannot be empty")
	}
	if width < 0 {
		return Canvas{}, errors.New(errors.ErrCodeInvalidEntity, "canvas %q: width must not be negative, got %d", id, width)
	}
	if height < 0 {
		return Canvas{}, errors.New(errors.ErrCodeInvalidEntity, "canvas %q: height must not be negative, got %d", id, height)
	}
	return Canvas{id: id, width: width, height: height}, nil
}

// ID returns the canvas identifier.
func (c Canvas) ID() string { return c.id }

// Width returns the canvas width in pixels.
func (c Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c Canvas) Height() int { return c.height }
