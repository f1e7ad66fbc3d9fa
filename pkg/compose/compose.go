// Package compose implements the compositing engine: it turns a resolved
// [entity.Layout] into a single raster image by stacking layers in order.
//
// The compositor performs no I/O of its own. Source pixels and font faces
// come from collaborator interfaces, and the finished raster is handed back
// to the caller for persistence.
package compose

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/lmeier/layermix/pkg/entity"
	"github.com/lmeier/layermix/pkg/errors"
)

// ImageOpener supplies decoded source pixels for image layers.
type ImageOpener interface {
	// Open returns the decoded image at path. Failures propagate to the
	// render caller unchanged in cause.
	Open(ctx context.Context, path string) (image.Image, error)
}

// FaceOpener supplies font faces for text layers.
type FaceOpener interface {
	// Open returns a font face for the file at path sized to points.
	Open(path string, points float64) (font.Face, error)
}

// background is the initial canvas fill: fully transparent white.
var background = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// Compositor renders layouts using the given collaborators. It holds no
// per-render state; one Compositor may render independent layouts from
// multiple goroutines.
type Compositor struct {
	images ImageOpener
	faces  FaceOpener
}

// New creates a Compositor with the given collaborators.
func New(images ImageOpener, faces FaceOpener) *Compositor {
	return &Compositor{images: images, faces: faces}
}

// Render draws the layout's layers bottom to top onto a freshly allocated
// raster of the layout's canvas size and returns it. The only effect is the
// returned image; rendering the same layout twice yields equal pixels.
func (c *Compositor) Render(ctx context.Context, l entity.Layout) (*image.NRGBA, error) {
	canvas := l.Canvas()
	dst := image.NewNRGBA(image.Rect(0, 0, canvas.Width(), canvas.Height()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, layer := range l.Layers() {
		switch el := layer.(type) {
		case entity.ImageElement:
			if err := c.drawImage(ctx, dst, el); err != nil {
				return nil, err
			}
		case entity.TextElement:
			if err := c.drawText(dst, el); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New(errors.ErrCodeInternal, "unhandled layer kind %T", layer)
		}
	}
	return dst, nil
}

// drawImage resamples the layer's source image to its exact target size and
// alpha-composites it over the accumulated raster at the layer's position.
// Placement outside the canvas silently clips.
func (c *Compositor) drawImage(ctx context.Context, dst *image.NRGBA, el entity.ImageElement) error {
	if el.Width() == 0 || el.Height() == 0 {
		return nil // zero target size draws nothing
	}

	src, err := c.images.Open(ctx, el.SourcePath())
	if err != nil {
		return err
	}

	resized := imaging.Resize(src, el.Width(), el.Height(), imaging.Lanczos)

	// Paste onto a full-size transparent scratch buffer first, then blend
	// the whole buffer over the result. Transparent scratch regions leave
	// the accumulated pixels untouched.
	scratch := image.NewNRGBA(dst.Bounds())
	x, y := el.Position()
	target := image.Rect(x, y, x+el.Width(), y+el.Height())
	draw.Draw(scratch, target, resized, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), scratch, image.Point{}, draw.Over)
	return nil
}

// drawText draws the layer's text fully opaque onto the accumulated raster.
// The layer position is the top-left corner of the glyph box, so the
// baseline sits one ascent below it.
func (c *Compositor) drawText(dst *image.NRGBA, el entity.TextElement) error {
	face, err := c.faces.Open(el.FontFile(), float64(el.FontSize()))
	if err != nil {
		return err
	}

	x, y := el.Position()
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(el.Color()),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y) + face.Metrics().Ascent,
		},
	}
	drawer.DrawString(el.Text())
	return nil
}
