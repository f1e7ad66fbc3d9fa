package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lmeier/layermix/pkg/config"
	"github.com/lmeier/layermix/pkg/entity"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"render": false, "resolve": false, "inspect": false,
		"serve": false, "cache": false, "completion": false,
	}
	for _, cmd := range root.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") = %v, want built-in defaults", err)
	}
	if cfg.Source.Type != config.SourceCSV {
		t.Errorf("source type = %q, want csv default", cfg.Source.Type)
	}
}

func TestLoadConfigExplicitMissingFileFails(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing config accepted")
	}
}

func TestLayoutTableListsOutputs(t *testing.T) {
	cv, err := entity.NewCanvas("c1", 1920, 1080)
	if err != nil {
		t.Fatal(err)
	}
	img, err := entity.NewImageElement("bg", 0, 0, 10, 10, "bg.png")
	if err != nil {
		t.Fatal(err)
	}
	l, err := entity.NewLayout(cv, "poster", []entity.Layer{img})
	if err != nil {
		t.Fatal(err)
	}

	out := layoutTable([]entity.Layout{l})
	for _, want := range []string{"poster", "c1", "1920x1080"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestValidateDiagramFormat(t *testing.T) {
	for _, f := range []string{"dot", "svg", "png"} {
		if err := validateDiagramFormat(f); err != nil {
			t.Errorf("validateDiagramFormat(%q) = %v", f, err)
		}
	}
	if err := validateDiagramFormat("pdf"); err == nil {
		t.Error("invalid format accepted")
	}
}
