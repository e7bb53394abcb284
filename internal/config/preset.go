package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PresetVersion is written into every preset file.
const PresetVersion = "1.0"

// Preset is a saved tag look: artwork and animation, without export or
// logging settings.
type Preset struct {
	Version   string          `yaml:"version"`
	Tag       TagConfig       `yaml:"tag"`
	Animation AnimationConfig `yaml:"animation"`
}

// Preset captures the current look.
func (c *Config) Preset() *Preset {
	return &Preset{Version: PresetVersion, Tag: c.Tag, Animation: c.Animation}
}

// ApplyPreset replaces the look with p and revalidates.
func (c *Config) ApplyPreset(p *Preset) error {
	next := *c
	next.Tag = p.Tag
	next.Animation = p.Animation
	if err := next.Validate(); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	*c = next
	return nil
}

// WritePreset writes a preset to a YAML file
func WritePreset(p *Preset, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadPreset reads a preset from a YAML file
func ReadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}
	if p.Version == "" {
		p.Version = PresetVersion
	}
	return &p, nil
}

// PresetPath creates a timestamped preset filename in dir
func PresetPath(dir, name string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.yaml", name, timestamp))
}
