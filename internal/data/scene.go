package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LayerDesc describes one layer of a scene.
type LayerDesc struct {
	Name    string  `yaml:"name"`
	Z       float64 `yaml:"z"`
	Visible *bool   `yaml:"visible"`
}

// IsVisible reports the initial visibility; layers are visible unless they say otherwise.
func (l LayerDesc) IsVisible() bool {
	return l.Visible == nil || *l.Visible
}

// SpawnEntry places one prefab instance on a layer when the scene loads.
type SpawnEntry struct {
	Prefab string  `yaml:"prefab"`
	Layer  string  `yaml:"layer"`
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Angle  float64 `yaml:"angle"`
}

// SceneDesc is the descriptor a scene is built from.
type SceneDesc struct {
	Name   string       `yaml:"name"`
	Script string       `yaml:"script"` // hook namespace; empty means none
	Layers []LayerDesc  `yaml:"layers"`
	Spawns []SpawnEntry `yaml:"spawns"`
}

type sceneListFile struct {
	Scenes []SceneDesc `yaml:"scenes"`
}

// SceneTable holds all scene descriptors indexed by name.
type SceneTable struct {
	scenes map[string]*SceneDesc
}

// Get returns the scene with the given name, or nil if none is defined.
func (t *SceneTable) Get(name string) *SceneDesc {
	return t.scenes[name]
}

// Count returns the number of scenes.
func (t *SceneTable) Count() int {
	return len(t.scenes)
}

// LoadSceneTable loads scene descriptors from a YAML file.
func LoadSceneTable(path string) (*SceneTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenes: %w", err)
	}
	return ParseSceneTable(raw)
}

// ParseSceneTable decodes a scene list document. Spawns must reference a
// layer declared by the same scene.
func ParseSceneTable(raw []byte) (*SceneTable, error) {
	var f sceneListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scenes: %w", err)
	}
	t := &SceneTable{scenes: make(map[string]*SceneDesc, len(f.Scenes))}
	for i := range f.Scenes {
		s := &f.Scenes[i]
		if s.Name == "" {
			return nil, fmt.Errorf("parse scenes: entry %d has no name", i)
		}
		layers := make(map[string]bool, len(s.Layers))
		for _, l := range s.Layers {
			layers[l.Name] = true
		}
		for _, sp := range s.Spawns {
			if !layers[sp.Layer] {
				return nil, fmt.Errorf("parse scenes: %s spawns %s on unknown layer %q", s.Name, sp.Prefab, sp.Layer)
			}
		}
		t.scenes[s.Name] = s
	}
	return t, nil
}
