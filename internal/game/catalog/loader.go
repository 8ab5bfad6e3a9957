package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a catalog file. Any section may be omitted,
// so content can be split across files freely.
type document struct {
	Skills     []*Skill    `yaml:"skills"`
	Items      []*Item     `yaml:"items"`
	Monsters   []*Monster  `yaml:"monsters"`
	Activities []*Activity `yaml:"activities"`
	Quests     []*Quest    `yaml:"quests"`
}

// LoadFromBytes parses one catalog document and registers its templates into r.
//
// Precondition: r must not be nil.
// Postcondition: Returns nil iff every template parsed, validated and registered.
// Cross-references are not checked; call r.Validate once all documents are loaded.
func (r *Registry) LoadFromBytes(data []byte) error {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing catalog YAML: %w", err)
	}
	for _, s := range doc.Skills {
		if err := r.RegisterSkill(s); err != nil {
			return err
		}
	}
	for _, i := range doc.Items {
		if err := r.RegisterItem(i); err != nil {
			return err
		}
	}
	for _, m := range doc.Monsters {
		if err := r.RegisterMonster(m); err != nil {
			return err
		}
	}
	for _, a := range doc.Activities {
		if err := r.RegisterActivity(a); err != nil {
			return err
		}
	}
	for _, q := range doc.Quests {
		if err := r.RegisterQuest(q); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir reads every *.yaml file in dir (in name order) into a new Registry
// and validates cross-references.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a validated Registry, or an error on the first read,
// parse or validation failure; on error, the partial result is discarded.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir %q: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	reg := NewRegistry()
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		if err := reg.LoadFromBytes(data); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}
