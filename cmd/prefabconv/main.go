// prefabconv converts legacy XML prefab documents into the YAML prefab list
// the engine loads.
//
// Usage:
//
//	go run ./cmd/prefabconv [input-dir-or-file...] > data/yaml/prefabs.yaml
//	go run ./cmd/prefabconv -o data/yaml/prefabs.yaml assets/prefabs
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/greybox2d/greybox/internal/data"
)

type prefabFile struct {
	Prefabs []data.Prefab `yaml:"prefabs"`
}

func main() {
	outputPath := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{filepath.Join("assets", "prefabs")}
	}

	files, err := collect(inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// ---- Parse every document ----
	seen := make(map[string]string)
	var prefabs []data.Prefab
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading %s: %v\n", path, err)
			os.Exit(1)
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		parsed, err := data.ParsePrefabXML(raw, base)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error in %s: %v\n", path, err)
			os.Exit(1)
		}
		for _, p := range parsed {
			if prev, dup := seen[p.Name]; dup {
				fmt.Fprintf(os.Stderr, "warning: prefab %q in %s overrides %s\n", p.Name, path, prev)
				prefabs = dropNamed(prefabs, p.Name)
			}
			seen[p.Name] = path
			prefabs = append(prefabs, p)
		}
	}

	sort.Slice(prefabs, func(i, j int) bool { return prefabs[i].Name < prefabs[j].Name })

	// ---- Write YAML ----
	out, err := yaml.Marshal(&prefabFile{Prefabs: prefabs})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshalling YAML: %v\n", err)
		os.Exit(1)
	}
	if _, err := data.ParsePrefabTable(out); err != nil {
		fmt.Fprintf(os.Stderr, "converted table does not load: %v\n", err)
		os.Exit(1)
	}
	header := fmt.Sprintf("# Prefabs - converted from %d XML documents\n\n", len(files))
	out = append([]byte(header), out...)

	if *outputPath == "" {
		os.Stdout.Write(out)
		return
	}
	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", *outputPath, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "wrote %d prefabs to %s\n", len(prefabs), *outputPath)
}

// collect expands directories into their *.xml files, in walk order.
func collect(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func dropNamed(prefabs []data.Prefab, name string) []data.Prefab {
	out := prefabs[:0]
	for _, p := range prefabs {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}
