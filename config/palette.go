package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Palette assigns a line colour to each technique.
type Palette struct {
	Techniques map[string]string `yaml:"techniques"`
	Default    string            `yaml:"default"`
}

func DefaultPalette() Palette {
	return Palette{
		Techniques: map[string]string{
			"Chi":              "#3b82f6",
			"Kundalini":        "#8b5cf6",
			"Kundalini (Yoga)": "#8b5cf6",
			"Normal":           "#10b981",
			"Spontaneous":      "#10b981",
			"Metronomic":       "#ef4444",
			"Athlete":          "#f59e0b",
		},
		Default: "#6b7280",
	}
}

// LoadPalette reads a YAML palette. Techniques it does not mention keep their default colour.
func LoadPalette(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file Palette
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Palette{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	p := DefaultPalette()
	for technique, colour := range file.Techniques {
		p.Techniques[technique] = colour
	}
	if file.Default != "" {
		p.Default = file.Default
	}
	return p, nil
}

// Colour returns the colour for a technique, or the default one.
func (p Palette) Colour(technique string) string {
	if c, ok := p.Techniques[technique]; ok {
		return c
	}
	return p.Default
}
