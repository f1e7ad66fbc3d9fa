package entity

import (
	"image/color"

	"github.com/lmeier/layermix/pkg/errors"
)

// Layer is one positioned visual element drawn onto a canvas.
//
// The interface is sealed: ImageElement and TextElement are the only
// implementations. Position is the top-left anchor in canvas coordinates.
type Layer interface {
	// LayerID returns the layer identifier, unique across both layer tables.
	LayerID() string
	// Position returns the top-left anchor (x, y) in canvas coordinates.
	Position() (x, y int)

	isLayer()
}

// base holds the attributes shared by both layer kinds.
type base struct {
	id string
	x  int
	y  int
}

func (b base) LayerID() string      { return b.id }
func (b base) Position() (x, y int) { return b.x, b.y }

func newBase(id string, x, y int) (base, error) {
	if id == "" {
		return base{}, errors.New(errors.ErrCodeInvalidEntity, "layer_id cannot be empty")
	}
	if x < 0 {
		return base{}, errors.New(errors.ErrCodeInvalidEntity, "layer %q: position_x must not be negative, got %d", id, x)
	}
	if y < 0 {
		return base{}, errors.New(errors.ErrCodeInvalidEntity, "layer %q: position_y must not be negative, got %d", id, y)
	}
	return base{id: id, x: x, y: y}, nil
}

// ImageElement is a layer backed by a source image, resampled to an exact
// target size (aspect ratio is not preserved).
type ImageElement struct {
	base
	width      int
	height     int
	sourcePath string
}

// NewImageElement validates and constructs an ImageElement. sourcePath is the
// already-joined location of the source image; no I/O is performed here.
func NewImageElement(id string, x, y, width, height int, sourcePath string) (ImageElement, error) {
	b, err := newBase(id, x, y)
	if err != nil {
		return ImageElement{}, err
	}
	if width < 0 {
		return ImageElement{}, errors.New(errors.ErrCodeInvalidEntity, "layer %q: width must not be negative, got %d", id, width)
	}
	if height < 0 {
		return ImageElement{}, errors.New(errors.ErrCodeInvalidEntity, "layer %q: height must not be negative, got %d", id, height)
	}
	if sourcePath == "" {
		return ImageElement{}, errors.New(errors.ErrCodeInvalidEntity, "layer %q: source_path cannot be empty", id)
	}
	return ImageElement{base: b, width: width, height: height, sourcePath: sourcePath}, nil
}

// Width returns the target render width in pixels.
func (e ImageElement) Width() int { return e.width }

// Height returns the target render height in pixels.
func (e ImageElement) Height() int { return e.height }

// SourcePath returns the location of the source image.
func (e ImageElement) SourcePath() string { return e.sourcePath }

func (ImageElement) isLayer() {}

// TextElement is a layer that draws a string of text in a single color using
// a TrueType/OpenType font at a fixed point size.
type TextElement struct {
	base
	fontSize int
	fontFile string
	r, g, b  int
	text     string
}

// NewTextElement validates and constructs a TextElement.
// colorR, colorG and colorB must each be in [0, 255]. An empty fontFile
// selects the bundled default face at draw time.
func NewTextElement(id string, x, y, fontSize int, fontFile string, colorR, colorG, colorB int, text string) (TextElement, error) {
	b, err := newBase(id, x, y)
	if err != nil {
		return TextElement{}, err
	}
	for _, c := range []struct {
		name  string
		value int
	}{
		{"color_r", colorR},
		{"color_g", colorG},
		{"color_b", colorB},
	} {
		if c.value < 0 || c.value > 255 {
			return TextElement{}, errors.New(errors.ErrCodeInvalidEntity, "layer %q: %s must be between 0 and 255, got %d", id, c.name, c.value)
		}
	}
	if text == "" {
		return TextElement{}, errors.New(errors.ErrCodeInvalidEntity, "layer %q: text_content cannot be empty", id)
	}
	return TextElement{base: b, fontSize: fontSize, fontFile: fontFile, r: colorR, g: colorG, b: colorB, text: text}, nil
}

// FontSize returns the font point size.
func (e TextElement) FontSize() int { return e.fontSize }

// FontFile returns the path of the font file used to draw the text. Empty
// means the bundled default face.
func (e TextElement) FontFile() string { return e.fontFile }

// Color returns the fully opaque text color.
func (e TextElement) Color() color.NRGBA {
	return color.NRGBA{R: uint8(e.r), G: uint8(e.g), B: uint8(e.b), A: 255}
}

// RGB returns the raw color components.
func (e TextElement) RGB() (r, g, b int) { return e.r, e.g, e.b }

// Text returns the text content.
func (e TextElement) Text() string { return e.text }

func (TextElement) isLayer() {}
