// internal/presets/presets.go
//
// Difficulty preset management.
//
// Responsibilities:
//   - Load difficulty presets from an environment-provided YAML file or fall
//     back to the embedded default (assets/presets.yaml).
//   - Validate ranges and names.
//   - Supply lookups by name and the configured default.
//
// Initialization behavior (Init):
//   1. If PRESETS_FILE is set, load presets from that path.
//   2. Otherwise parse the embedded default.
//
// Initialization is run once (sync.Once); Parse is the side-effect free
// variant used by tests and by Init itself.

package presets

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/circuitquest/apps/go-server/assets"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/game"
)

// file is the on-disk YAML shape.
type file struct {
	Default      string  `yaml:"default"`
	Difficulties []entry `yaml:"difficulties"`
}

type entry struct {
	Name      string  `yaml:"name"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	TargetMin float64 `yaml:"target_min"`
	TargetMax float64 `yaml:"target_max"`
}

// Catalog is an ordered, validated set of difficulties.
type Catalog struct {
	list  []game.Difficulty
	index map[string]int
	def   string
}

var (
	initOnce   sync.Once
	current    *Catalog
	initialErr error
)

// Init loads presets exactly once from path (PRESETS_FILE), or from the
// embedded default when path is empty.
func Init(path string) error {
	initOnce.Do(func() {
		var raw []byte
		if path != "" {
			raw, initialErr = os.ReadFile(path)
		} else {
			raw, initialErr = assets.Presets()
		}
		if initialErr != nil {
			return
		}
		current, initialErr = Parse(raw)
	})
	return initialErr
}

// Current returns the catalog loaded by Init, or the built-in
// Easy/Medium/Hard presets if Init has not run.
func Current() *Catalog {
	if current == nil {
		return Builtin()
	}
	return current
}

// Builtin returns Easy, Medium and Hard with Medium as default.
func Builtin() *Catalog {
	c, _ := newCatalog([]game.Difficulty{game.Easy, game.Medium, game.Hard}, game.Medium.Name)
	return c
}

// Parse decodes and validates a presets document.
// Missing target bounds fall back to game.DefaultTarget.
func Parse(raw []byte) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("presets: decode: %w", err)
	}
	list := make([]game.Difficulty, 0, len(f.Difficulties))
	for _, e := range f.Difficulties {
		target := game.Range{Min: e.TargetMin, Max: e.TargetMax}
		if e.TargetMin == 0 && e.TargetMax == 0 {
			target = game.DefaultTarget
		}
		list = append(list, game.Difficulty{
			Name:   normalize(e.Name),
			Values: game.Range{Min: e.Min, Max: e.Max},
			Target: target,
		})
	}
	return newCatalog(list, normalize(f.Default))
}

func newCatalog(list []game.Difficulty, def string) (*Catalog, error) {
	if len(list) == 0 {
		return nil, errors.New("presets: no difficulties defined")
	}
	c := &Catalog{list: list, index: make(map[string]int, len(list))}
	for i, d := range list {
		if d.Name == "" {
			return nil, fmt.Errorf("presets: difficulty %d has no name", i)
		}
		if _, dup := c.index[d.Name]; dup {
			return nil, fmt.Errorf("presets: duplicate difficulty %q", d.Name)
		}
		if !d.Values.Valid() {
			return nil, fmt.Errorf("presets: %s: invalid value range %v-%v", d.Name, d.Values.Min, d.Values.Max)
		}
		if !d.Target.Valid() {
			return nil, fmt.Errorf("presets: %s: invalid target range %v-%v", d.Name, d.Target.Min, d.Target.Max)
		}
		c.index[d.Name] = i
	}
	if def == "" {
		def = list[0].Name
	}
	if _, ok := c.index[def]; !ok {
		return nil, fmt.Errorf("presets: default %q is not defined", def)
	}
	c.def = def
	return c, nil
}

// Lookup finds a difficulty by name (case-insensitive).
// An empty name yields the default.
func (c *Catalog) Lookup(name string) (game.Difficulty, bool) {
	name = normalize(name)
	if name == "" {
		name = c.def
	}
	i, ok := c.index[name]
	if !ok {
		return game.Difficulty{}, false
	}
	return c.list[i], true
}

// Default returns the default difficulty.
func (c *Catalog) Default() game.Difficulty {
	d, _ := c.Lookup("")
	return d
}

// All returns the difficulties in file order.
func (c *Catalog) All() []game.Difficulty {
	return append([]game.Difficulty(nil), c.list...)
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
