package simulation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/67O7XoO4/go-boids/pkg/flock"
	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Config is the full, flat configuration document.
// The rule parameters are embedded so the file keeps one level of keys.
type Config struct {
	// World Dimensions (initial window size, the viewer resizes the viewport afterwards)
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	TicksPerSecond int    `json:"ticksPerSecond"`
	Seed           uint64 `json:"seed"` // 0 picks a random seed

	// Population
	NumBoids int `json:"numBoids"`

	flock.Params

	// Visualization toggles, read by the viewer only
	DrawTrail              bool `json:"drawTrail"`
	ShowMinDistance        bool `json:"showMinDistance"`
	ShowVisualRange        bool `json:"showVisualRange"`
	ShowPointerMinDistance bool `json:"showPointerMinDistance"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:     1000,
		WorldHeight:    800,
		TicksPerSecond: 60,
		NumBoids:       60,
		Params:         flock.DefaultParams(),
	}
}

// Viewport returns the initial viewport described by the world dimensions.
func (c *Config) Viewport() flock.Viewport {
	return flock.Viewport{Width: c.WorldWidth, Height: c.WorldHeight}
}

// LoadConfig loads configuration from a JSON, YAML or TOML file and validates it against the schema.
// Keys missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File, YAML and TOML are normalised to JSON so all go through the same validation
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		if b, err = yamlToJSON(b); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	case ".toml":
		if b, err = tomlToJSON(b); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal into Struct, on top of the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func yamlToJSON(b []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return json.Marshal(doc)
}

func tomlToJSON(b []byte) ([]byte, error) {
	doc := map[string]interface{}{}
	if err := toml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
