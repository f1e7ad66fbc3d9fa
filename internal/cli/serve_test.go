package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmeier/layermix/pkg/cache"
	"github.com/lmeier/layermix/pkg/entity"
)

func serveTestLayouts(t *testing.T) []entity.Layout {
	t.Helper()
	imgPath := filepath.Join(t.TempDir(), "bg.png")
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{0, 200, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(imgPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	cv, err := entity.NewCanvas("c1", 20, 10)
	if err != nil {
		t.Fatal(err)
	}
	el, err := entity.NewImageElement("bg", 0, 0, 20, 10, imgPath)
	if err != nil {
		t.Fatal(err)
	}
	l, err := entity.NewLayout(cv, "poster", []entity.Layer{el})
	if err != nil {
		t.Fatal(err)
	}
	return []entity.Layout{l}
}

func TestServeRouterLayouts(t *testing.T) {
	c := New(io.Discard, LogInfo)
	srv := httptest.NewServer(c.serveRouter(serveTestLayouts(t), cache.NewNullCache()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/layouts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /layouts = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var doc struct {
		Layouts []struct {
			OutputName string `json:"output_name"`
		} `json:"layouts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Layouts) != 1 || doc.Layouts[0].OutputName != "poster" {
		t.Errorf("layouts = %+v", doc.Layouts)
	}
}

func TestServeRouterRendersOutput(t *testing.T) {
	c := New(io.Discard, LogInfo)
	srv := httptest.NewServer(c.serveRouter(serveTestLayouts(t), cache.NewNullCache()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/outputs/poster")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /outputs/poster = %d, want 200", resp.StatusCode)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("bounds = %v, want canvas size 20x10", img.Bounds())
	}
}

func TestServeRouterLogsRequestID(t *testing.T) {
	var logBuf bytes.Buffer
	c := New(&logBuf, LogDebug)
	srv := httptest.NewServer(c.serveRouter(serveTestLayouts(t), cache.NewNullCache()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/layouts")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	out := logBuf.String()
	if !strings.Contains(out, "request_id") {
		t.Errorf("log output %q should carry the request id", out)
	}
	if !strings.Contains(out, "/layouts") {
		t.Errorf("log output %q should name the request path", out)
	}
}

func TestServeRouterUnknownOutput(t *testing.T) {
	c := New(io.Discard, LogInfo)
	srv := httptest.NewServer(c.serveRouter(serveTestLayouts(t), cache.NewNullCache()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/outputs/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /outputs/nope = %d, want 404", resp.StatusCode)
	}
}
