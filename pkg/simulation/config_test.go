package simulation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/67O7XoO4/go-boids/pkg/flock"
)

const schemaFile = "../../configs/boids.schema.json"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadConfig_ShippedFiles(t *testing.T) {
	for _, name := range []string{"boids.json", "boids.yaml", "boids.toml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadConfig(filepath.Join("../../configs", name), schemaFile)
			if err != nil {
				t.Fatalf("LoadConfig(%s): %v", name, err)
			}
			if cfg.NumBoids <= 0 || cfg.WorldWidth <= 0 || cfg.WorldHeight <= 0 {
				t.Errorf("LoadConfig(%s) = %+v; want a populated world", name, cfg)
			}
		})
	}
}

func TestLoadConfig_JSONMatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig("../../configs/boids.json", schemaFile)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("boids.json = %+v; want DefaultConfig %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "partial.json", `{"numBoids": 7, "cohesionFactor": 0, "drawTrail": true}`)

	cfg, err := LoadConfig(path, schemaFile)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := DefaultConfig()
	want.NumBoids = 7
	want.CohesionFactor = 0
	want.DrawTrail = true
	if *cfg != *want {
		t.Errorf("LoadConfig = %+v; want %+v", cfg, want)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "flock.yml", "numBoids: 3\nspeedLimit: 2.5\napplyRules: false\n")

	cfg, err := LoadConfig(path, schemaFile)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.NumBoids != 3 || cfg.SpeedLimit != 2.5 || cfg.ApplyRules {
		t.Errorf("LoadConfig = %+v; want numBoids=3 speedLimit=2.5 applyRules=false", cfg)
	}
	if cfg.Margin != flock.DefaultParams().Margin {
		t.Errorf("margin = %v; want default %v", cfg.Margin, flock.DefaultParams().Margin)
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "flock.toml", "numBoids = 40\nspeedLimit = 8\ndrawTrail = true\n")

	cfg, err := LoadConfig(path, schemaFile)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.NumBoids != 40 || cfg.SpeedLimit != 8 || !cfg.DrawTrail {
		t.Errorf("LoadConfig = %+v; want numBoids=40 speedLimit=8 drawTrail=true", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"Unknown key", "unknown.json", `{"numBirds": 3}`, "validation failed"},
		{"Wrong type", "type.json", `{"numBoids": "many"}`, "validation failed"},
		{"Negative count", "negative.json", `{"numBoids": -1}`, "validation failed"},
		{"Broken json", "broken.json", `{"numBoids": `, "decode config json"},
		{"Broken yaml", "broken.yaml", "numBoids: [1,\n", "decode config yaml"},
		{"Broken toml", "broken.toml", "numBoids = \n", "decode config toml"},
		{"Invalid toml value", "range.toml", "margin = \"wide\"\n", "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := LoadConfig(path, schemaFile)
			if err == nil {
				t.Fatalf("LoadConfig(%s) succeeded; want error containing %q", tt.file, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig(%s) error = %v; want it to contain %q", tt.file, err, tt.wantErr)
			}
		})
	}

	t.Run("Missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(dir, "nope.json"), schemaFile); err == nil {
			t.Error("LoadConfig on a missing file succeeded")
		}
	})

	t.Run("Missing schema", func(t *testing.T) {
		path := writeFile(t, dir, "ok.json", `{}`)
		if _, err := LoadConfig(path, filepath.Join(dir, "nope.schema.json")); err == nil {
			t.Error("LoadConfig with a missing schema succeeded")
		}
	})
}
