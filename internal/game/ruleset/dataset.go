package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClassDef is a Class as authored in YAML, with its linked pools named by slug.
type ClassDef struct {
	Class    `yaml:",inline"`
	Bonuses  []string `yaml:"bonuses"`
	Skills   []string `yaml:"skills"`
	Memories []string `yaml:"memories"`
}

// Dataset is a complete catalogue as authored in YAML.
type Dataset struct {
	Classes    []ClassDef  `yaml:"classes"`
	Bonuses    []Entry     `yaml:"bonuses"`
	Skills     []Entry     `yaml:"skills"`
	Memories   []Entry     `yaml:"memories"`
	Armors     []Armor     `yaml:"armors"`
	Weapons    []Weapon    `yaml:"weapons"`
	Items      []Item      `yaml:"items"`
	Narratives []Narrative `yaml:"narratives"`
}

func (d *Dataset) merge(o Dataset) {
	d.Classes = append(d.Classes, o.Classes...)
	d.Bonuses = append(d.Bonuses, o.Bonuses...)
	d.Skills = append(d.Skills, o.Skills...)
	d.Memories = append(d.Memories, o.Memories...)
	d.Armors = append(d.Armors, o.Armors...)
	d.Weapons = append(d.Weapons, o.Weapons...)
	d.Items = append(d.Items, o.Items...)
	d.Narratives = append(d.Narratives, o.Narratives...)
}

// LoadDataset reads a YAML dataset from path. When path is a directory every
// .yaml/.yml file in it is read in name order and the results concatenated.
//
// Postcondition: Returns the parsed dataset or a non-nil error. Records are
// not validated here; NewMemoryCatalog does that.
func LoadDataset(path string) (Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	files := []string{path}
	if info.IsDir() {
		files, err = yamlFiles(path)
		if err != nil {
			return Dataset{}, err
		}
	}
	var ds Dataset
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return Dataset{}, fmt.Errorf("reading %s: %w", f, err)
		}
		var part Dataset
		if err := yaml.Unmarshal(data, &part); err != nil {
			return Dataset{}, fmt.Errorf("parsing dataset file %s: %w", f, err)
		}
		ds.merge(part)
	}
	return ds, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
