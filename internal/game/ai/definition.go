package ai

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy kinds accepted in definition files.
const (
	KindHeuristic = "heuristic"
	KindScript    = "script"
)

// Definition declares one named policy in content.
//
// Scripts names the script set whose VM holds the hook; it defaults to Name.
type Definition struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Scripts     string `yaml:"scripts"`
	Hook        string `yaml:"hook"`
	Description string `yaml:"description"`
}

// Validate checks required fields.
//
// Postcondition: nil return guarantees a non-empty Name and a known Kind.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return errors.New("ai.Definition: name must not be empty")
	}
	switch d.Kind {
	case KindHeuristic, KindScript:
	default:
		return fmt.Errorf("ai.Definition %q: unknown kind %q", d.Name, d.Kind)
	}
	return nil
}

// ScriptSet returns Scripts, or Name when Scripts is empty.
func (d *Definition) ScriptSet() string {
	if d.Scripts == "" {
		return d.Name
	}
	return d.Scripts
}

// yamlPolicyFile wraps the YAML top-level key.
type yamlPolicyFile struct {
	Policies []*Definition `yaml:"policies"`
}

// LoadDefinitions reads all *.yaml files from dir and returns parsed definitions.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns error if any YAML file fails to parse or validate, or
// if a name is declared twice.
func LoadDefinitions(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDefinitions: reading %q: %w", dir, err)
	}
	seen := make(map[string]struct{})
	var defs []*Definition
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDefinitions: reading %s: %w", e.Name(), err)
		}
		var f yamlPolicyFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("ai.LoadDefinitions: parsing %s: %w", e.Name(), err)
		}
		for _, d := range f.Policies {
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("ai.LoadDefinitions: %s: %w", e.Name(), err)
			}
			if _, dup := seen[d.Name]; dup {
				return nil, fmt.Errorf("ai.LoadDefinitions: %s: duplicate policy %q", e.Name(), d.Name)
			}
			seen[d.Name] = struct{}{}
			defs = append(defs, d)
		}
	}
	return defs, nil
}
