package layoutio

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lmeier/layermix/pkg/entity"
)

func sampleLayouts(t *testing.T) []entity.Layout {
	t.Helper()
	cv, err := entity.NewCanvas("c1", 1920, 1080)
	if err != nil {
		t.Fatal(err)
	}
	img, err := entity.NewImageElement("bg", 0, 0, 1920, 1080, "images/bg.png")
	if err != nil {
		t.Fatal(err)
	}
	txt, err := entity.NewTextElement("title", 40, 60, 72, "fonts/a.ttf", 255, 128, 0, "hello")
	if err != nil {
		t.Fatal(err)
	}
	l, err := entity.NewLayout(cv, "poster", []entity.Layer{img, txt})
	if err != nil {
		t.Fatal(err)
	}
	return []entity.Layout{l}
}

func TestRoundTrip(t *testing.T) {
	want := sampleLayouts(t)

	var buf bytes.Buffer
	if err := WriteJSON(want, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed layouts:\ngot  %#v\nwant %#v", got, want)
	}
}

func TestFileRoundTrip(t *testing.T) {
	want := sampleLayouts(t)
	path := filepath.Join(t.TempDir(), "layouts.json")

	if err := ExportJSON(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("file round trip changed layouts")
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleLayouts(t), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`"output_name": "poster"`,
		`"kind": "image"`,
		`"kind": "text"`,
		`"source_path": "images/bg.png"`,
		`"text": "hello"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestReadJSONRejectsUnknownKind(t *testing.T) {
	in := `{"layouts":[{"output_name":"x","canvas":{"id":"c","width":1,"height":1},
		"layers":[{"kind":"video","id":"v","x":0,"y":0}]}]}`
	if _, err := ReadJSON(strings.NewReader(in)); err == nil {
		t.Fatal("unknown layer kind accepted")
	}
}

func TestReadJSONRevalidates(t *testing.T) {
	// Color out of range must fail on import just as it does in the
	// text table.
	in := `{"layouts":[{"output_name":"x","canvas":{"id":"c","width":1,"height":1},
		"layers":[{"kind":"text","id":"t","x":0,"y":0,"font_size":12,"color_r":999,"text":"a"}]}]}`
	if _, err := ReadJSON(strings.NewReader(in)); err == nil {
		t.Fatal("invalid color accepted on import")
	}
}
