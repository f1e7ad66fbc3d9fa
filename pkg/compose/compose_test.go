package compose

import (
	"context"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/lmeier/layermix/pkg/entity"
	"github.com/lmeier/layermix/pkg/errors"
)

// solidOpener returns a solid-colored source image for every path.
type solidOpener struct {
	c color.NRGBA
	w int
	h int
}

func (o solidOpener) Open(_ context.Context, _ string) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, o.w, o.h))
	for y := 0; y < o.h; y++ {
		for x := 0; x < o.w; x++ {
			img.SetNRGBA(x, y, o.c)
		}
	}
	return img, nil
}

type errOpener struct{ err error }

func (o errOpener) Open(_ context.Context, _ string) (image.Image, error) { return nil, o.err }

// fixedFace serves the basicfont fixed face regardless of path.
type fixedFace struct{}

func (fixedFace) Open(_ string, _ float64) (font.Face, error) { return basicfont.Face7x13, nil }

func mustLayout(t *testing.T, canvas entity.Canvas, name string, layers ...entity.Layer) entity.Layout {
	t.Helper()
	l, err := entity.NewLayout(canvas, name, layers)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestRenderCanvasSizeAndBackground(t *testing.T) {
	canvas, _ := entity.NewCanvas("c1", 100, 50)
	// A small image in the corner leaves the rest of the canvas untouched.
	img, _ := entity.NewImageElement("dot", 0, 0, 10, 10, "dot.png")
	layout := mustLayout(t, canvas, "out1", img)

	c := New(solidOpener{c: color.NRGBA{255, 0, 0, 255}, w: 4, h: 4}, fixedFace{})
	got, err := c.Render(context.Background(), layout)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 50 {
		t.Fatalf("bounds = %v, want 100x50", got.Bounds())
	}
	// Outside the pasted region the raster keeps the transparent white fill.
	if px := got.NRGBAAt(50, 25); px != (color.NRGBA{255, 255, 255, 0}) {
		t.Errorf("background pixel = %v, want transparent white", px)
	}
}

func TestRenderFullCanvasImageIsOpaque(t *testing.T) {
	canvas, _ := entity.NewCanvas("c1", 100, 50)
	img, _ := entity.NewImageElement("bg", 0, 0, 100, 50, "bg.png")
	layout := mustLayout(t, canvas, "out1", img)

	red := color.NRGBA{255, 0, 0, 255}
	c := New(solidOpener{c: red, w: 8, h: 8}, fixedFace{})
	got, err := c.Render(context.Background(), layout)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// An opaque full-canvas image leaves no background showing through.
	for _, p := range []image.Point{{0, 0}, {99, 0}, {0, 49}, {99, 49}, {50, 25}} {
		px := got.NRGBAAt(p.X, p.Y)
		if px.A != 255 {
			t.Errorf("pixel %v alpha = %d, want 255", p, px.A)
		}
		if px != red {
			t.Errorf("pixel %v = %v, want %v", p, px, red)
		}
	}
}

func TestRenderLayerStackingOrder(t *testing.T) {
	canvas, _ := entity.NewCanvas("c1", 10, 10)
	bottom, _ := entity.NewImageElement("bottom", 0, 0, 10, 10, "a.png")
	top, _ := entity.NewImageElement("top", 0, 0, 10, 10, "b.png")
	layout := mustLayout(t, canvas, "out1", bottom, top)

	// Both layers cover the canvas; the later layer must win.
	blue := color.NRGBA{0, 0, 255, 255}
	c := New(solidOpener{c: blue, w: 2, h: 2}, fixedFace{})
	got, err := c.Render(context.Background(), layout)
	if err != nil {
		t.Fatal(err)
	}
	if px := got.NRGBAAt(5, 5); px != blue {
		t.Errorf("pixel = %v, want the top layer's color", px)
	}
}

func TestRenderOutOfBoundsClips(t *testing.T) {
	canvas, _ := entity.NewCanvas("c1", 10, 10)
	img, _ := entity.NewImageElement("big", 5, 5, 10, 10, "big.png")
	layout := mustLayout(t, canvas, "out1", img)

	red := color.NRGBA{255, 0, 0, 255}
	c := New(solidOpener{c: red, w: 2, h: 2}, fixedFace{})
	got, err := c.Render(context.Background(), layout)
	if err != nil {
		t.Fatalf("out-of-bounds placement should clip silently, got %v", err)
	}
	if px := got.NRGBAAt(7, 7); px != red {
		t.Errorf("inside pixel = %v, want %v", px, red)
	}
	if px := got.NRGBAAt(2, 2); px.A != 0 {
		t.Errorf("pixel outside the placement = %v, want transparent", px)
	}
}

func TestRenderTextDrawsOpaquePixels(t *testing.T) {
	canvas, _ := entity.NewCanvas("c1", 60, 30)
	txt, _ := entity.NewTextElement("label", 2, 2, 13, "font.ttf", 0, 128, 255, "Hi")
	layout := mustLayout(t, canvas, "out1", txt)

	c := New(solidOpener{}, fixedFace{})
	got, err := c.Render(context.Background(), layout)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := color.NRGBA{0, 128, 255, 255}
	found := false
	for y := 0; y < 30 && !found; y++ {
		for x := 0; x < 60; x++ {
			if got.NRGBAAt(x, y) == want {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no pixel carries the text color; text was not drawn")
	}
}

func TestRenderPropagatesOpenerError(t *testing.T) {
	canvas, _ := entity.NewCanvas("c1", 10, 10)
	img, _ := entity.NewImageElement("bg", 0, 0, 10, 10, "missing.png")
	layout := mustLayout(t, canvas, "out1", img)

	cause := errors.New(errors.ErrCodeDecode, "missing.png cannot be read")
	c := New(errOpener{err: cause}, fixedFace{})
	_, err := c.Render(context.Background(), layout)
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("error = %v, want the opener's error unchanged", err)
	}
}

func TestRenderDeterministic(t *testing.T) {
	canvas, _ := entity.NewCanvas("c1", 20, 20)
	img, _ := entity.NewImageElement("bg", 3, 3, 10, 10, "bg.png")
	txt, _ := entity.NewTextElement("label", 1, 1, 13, "font.ttf", 10, 20, 30, "x")
	layout := mustLayout(t, canvas, "out1", img, txt)

	c := New(solidOpener{c: color.NRGBA{0, 255, 0, 255}, w: 3, h: 3}, fixedFace{})
	first, err := c.Render(context.Background(), layout)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Render(context.Background(), layout)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first.Pix {
		if first.Pix[i] != second.Pix[i] {
			t.Fatal("two renders of the same layout differ")
		}
	}
}
