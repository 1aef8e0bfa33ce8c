package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadOptions reads a flat option file. The format is chosen by extension:
// .toml, .yaml/.yml or .json. Keys may use canonical or legacy spellings.
func LoadOptions(path string) (map[string]any, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("option file not found: %s", path)
	}

	opts := map[string]any{}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &opts); err != nil {
			return nil, fmt.Errorf("failed to parse option file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read option file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return nil, fmt.Errorf("failed to parse option file %s: %w", path, err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read option file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &opts); err != nil {
			return nil, fmt.Errorf("failed to parse option file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported option file extension %q: use .toml, .yaml, .yml or .json", ext)
	}

	// an empty yaml document decodes to a nil map
	if opts == nil {
		opts = map[string]any{}
	}

	return opts, nil
}

// Merge overlays the given option maps left to right. Later maps win.
func Merge(layers ...map[string]any) map[string]any {
	merged := map[string]any{}
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}

// FillMissing copies fallback options into opts when the option is defined
// under neither its canonical nor its legacy key. opts is not modified.
func FillMissing(opts, fallback map[string]any) map[string]any {
	filled := Merge(opts)
	for k, v := range fallback {
		o, ok := LookupOption(k)
		if !ok {
			continue
		}
		if _, defined := lookup(filled, o); defined {
			continue
		}
		filled[o.Key] = v
	}
	return filled
}
