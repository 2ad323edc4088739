package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/stats"
)

type elementsFile struct {
	Elements []element.Def `yaml:"elements"`
}

type naturesFile struct {
	Natures []stats.Nature `yaml:"natures"`
}

type movesFile struct {
	Moves []*move.Move `yaml:"moves"`
}

type combatantsFile struct {
	Combatants []*CombatantDef `yaml:"combatants"`
}

// Load reads a content directory laid out as:
//
//	<dir>/elements.yaml
//	<dir>/natures.yaml
//	<dir>/moves/*.yaml
//	<dir>/combatants/*.yaml
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a validated Catalog, or an error naming the failing file.
func Load(dir string) (*Catalog, error) {
	var content Content

	var ef elementsFile
	if err := decodeFile(filepath.Join(dir, "elements.yaml"), &ef); err != nil {
		return nil, err
	}
	content.Elements = ef.Elements

	var nf naturesFile
	if err := decodeFile(filepath.Join(dir, "natures.yaml"), &nf); err != nil {
		return nil, err
	}
	content.Natures = nf.Natures

	moveFiles, err := yamlFiles(filepath.Join(dir, "moves"))
	if err != nil {
		return nil, err
	}
	for _, path := range moveFiles {
		var mf movesFile
		if err := decodeFile(path, &mf); err != nil {
			return nil, err
		}
		content.Moves = append(content.Moves, mf.Moves...)
	}

	combatantFiles, err := yamlFiles(filepath.Join(dir, "combatants"))
	if err != nil {
		return nil, err
	}
	for _, path := range combatantFiles {
		var cf combatantsFile
		if err := decodeFile(path, &cf); err != nil {
			return nil, err
		}
		content.Combatants = append(content.Combatants, cf.Combatants...)
	}

	cat, err := New(content)
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %q: %w", dir, err)
	}
	return cat, nil
}

// yamlFiles lists *.yaml files in dir in lexicographic order.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	return nil
}
