package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VantageDataChat/pptdom"
	"github.com/google/go-cmp/cmp"
)

const sampleHCL = `
defaults {
  color      = "#1f1f1f"
  font_size  = 12.5
  latin_font = "Aptos"
  bold       = true
}

slides = [1, 3]
`

func writeTempHCL(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pptinspect.hcl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTempHCL(t, sampleHCL))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := pptdom.Font{Name: "Aptos", Size: 12.5, Bold: true, Color: "1F1F1F"}
	if diff := cmp.Diff(want, cfg.Defaults); diff != "" {
		t.Errorf("Defaults mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 3}, cfg.Slides); diff != "" {
		t.Errorf("Slides mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Wants(3) || cfg.Wants(2) {
		t.Errorf("Wants() disagrees with Slides %v", cfg.Slides)
	}
}

func TestLoadPartialDefaults(t *testing.T) {
	cfg, err := Load(writeTempHCL(t, "defaults {\n  font_size = 24\n}\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := pptdom.DefaultFont()
	want.Size = 24
	if diff := cmp.Diff(want, cfg.Defaults); diff != "" {
		t.Errorf("Defaults mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Wants(7) {
		t.Error("no slide filter should accept every slide")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "defaults {", "parsing HCL"},
		{"bad colour", `defaults { color = "blue" }`, "defaults.color"},
		{"short colour", `defaults { color = "#abc" }`, "invalid hex color"},
		{"bad size", `defaults { font_size = 0 }`, "defaults.font_size"},
		{"wrong type", `defaults { bold = "yes please" }`, "defaults.bold"},
		{"unknown", `defaults { italic = true }`, "unknown setting"},
		{"slides not list", `slides = 2`, "expected a list"},
		{"slide zero", `slides = [0]`, "start at 1"},
		{"slide string", `slides = ["two"]`, "expected a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTempHCL(t, tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.hcl")); err == nil {
		t.Error("missing file accepted")
	}
}
