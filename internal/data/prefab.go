package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ComponentSpec names a component type and the property values to wire into it.
type ComponentSpec struct {
	Type       string            `yaml:"type"`
	Name       string            `yaml:"name,omitempty"`
	Properties map[string]string `yaml:"properties,omitempty"`
}

// Prefab is the template an actor is built from.
type Prefab struct {
	Name       string          `yaml:"name"`
	Tags       []string        `yaml:"tags,omitempty"`
	X          float64         `yaml:"x,omitempty"`
	Y          float64         `yaml:"y,omitempty"`
	Angle      float64         `yaml:"angle,omitempty"` // degrees
	Visible    *bool           `yaml:"visible,omitempty"`
	Components []ComponentSpec `yaml:"components,omitempty"`
}

// IsVisible reports the initial visibility; prefabs are visible unless they say otherwise.
func (p *Prefab) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// At returns a copy of the prefab placed at the given transform.
func (p *Prefab) At(x, y, angle float64) *Prefab {
	cp := *p
	cp.X, cp.Y, cp.Angle = x, y, angle
	return &cp
}

type prefabListFile struct {
	Prefabs []Prefab `yaml:"prefabs"`
}

// PrefabTable holds all prefabs indexed by name.
type PrefabTable struct {
	prefabs map[string]*Prefab
}

func NewPrefabTable(prefabs ...*Prefab) *PrefabTable {
	t := &PrefabTable{prefabs: make(map[string]*Prefab, len(prefabs))}
	for _, p := range prefabs {
		t.prefabs[p.Name] = p
	}
	return t
}

// Get returns the prefab with the given name, or nil if none is defined.
func (t *PrefabTable) Get(name string) *Prefab {
	return t.prefabs[name]
}

// Count returns the number of prefabs.
func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

// LoadPrefabTable loads prefab templates from a YAML file.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefabs: %w", err)
	}
	return ParsePrefabTable(raw)
}

// ParsePrefabTable decodes a prefab list document.
func ParsePrefabTable(raw []byte) (*PrefabTable, error) {
	var f prefabListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prefabs: %w", err)
	}
	t := &PrefabTable{prefabs: make(map[string]*Prefab, len(f.Prefabs))}
	for i := range f.Prefabs {
		p := &f.Prefabs[i]
		if p.Name == "" {
			return nil, fmt.Errorf("parse prefabs: entry %d has no name", i)
		}
		if _, dup := t.prefabs[p.Name]; dup {
			return nil, fmt.Errorf("parse prefabs: duplicate prefab %q", p.Name)
		}
		for j, c := range p.Components {
			if c.Type == "" {
				return nil, fmt.Errorf("parse prefabs: %s component %d has no type", p.Name, j)
			}
		}
		t.prefabs[p.Name] = p
	}
	return t, nil
}
