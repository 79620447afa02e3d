package vocabulary

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads an arena vocabulary file, normalises its entries, and
// validates the result. The file is a plain YAML document with one
// sequence per vocabulary (see configs/vocabulary.yaml for the shape).
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary file: %w", err)
	}

	var cfg Configuration
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing vocabulary file %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("vocabulary file %s: %w", path, err)
	}
	return &cfg, nil
}
