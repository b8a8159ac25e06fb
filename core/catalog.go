package core

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/mohae/deepcopy"
	"github.com/zeebo/xxh3"

	"github.com/signalsfoundry/commnet-calculator/model"
)

// CommandModuleName is the name of the antenna every vessel carries built in.
const CommandModuleName = "Command Module"

// CommandModule returns the built-in reference antenna seeded into vessels.
func CommandModule() model.AntennaSpec {
	return model.AntennaSpec{
		Name:            CommandModuleName,
		Aliases:         []string{},
		Power:           5000,
		Combinable:      false,
		CombineExponent: 0,
	}
}

// AliasCollision records an alias that was remapped by a later definition.
type AliasCollision struct {
	Alias    string
	Previous string
	Current  string
}

// Catalog resolves antenna names and aliases to specs.
//
// Loads may happen at any time, but in practice the catalog is filled once
// and only read afterwards. All access goes through an RWMutex so a shared
// catalog can be read from several goroutines.
type Catalog struct {
	mu sync.RWMutex

	aliases    map[string]string
	antennas   map[string]model.AntennaSpec
	collisions []AliasCollision

	digest  *xxh3.Hasher
	sources int
}

// NewCatalog returns a catalog holding only the built-in Command Module.
func NewCatalog() *Catalog {
	c := &Catalog{
		aliases:  make(map[string]string),
		antennas: make(map[string]model.AntennaSpec),
		digest:   xxh3.New(),
	}
	c.put(CommandModule())
	return c
}

// LoadCatalog builds a catalog from a single definitions source.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	c := NewCatalog()
	if err := c.Load(r); err != nil {
		return nil, err
	}
	return c, nil
}

// Load decodes antenna definitions from r and adds them to the catalog.
// Either every record is applied or, on a *DecodeError, none is.
func (c *Catalog) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &DecodeError{Source: "antennas", Index: -1, Err: err}
	}
	specs, err := decodeAntennas(data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, spec := range specs {
		c.put(spec)
	}
	_, _ = c.digest.Write(data)
	c.sources++
	return nil
}

// put registers spec under its name and aliases. Callers hold c.mu, except
// NewCatalog which owns c exclusively.
func (c *Catalog) put(spec model.AntennaSpec) {
	c.alias(spec.Name, spec.Name)
	for _, a := range spec.Aliases {
		c.alias(a, spec.Name)
	}
	c.antennas[spec.Name] = spec
}

func (c *Catalog) alias(alias, name string) {
	if prev, ok := c.aliases[alias]; ok && prev != name {
		c.collisions = append(c.collisions, AliasCollision{Alias: alias, Previous: prev, Current: name})
	}
	c.aliases[alias] = name
}

// Resolve looks up a name or alias, case-sensitively. The returned spec is a
// private copy.
func (c *Catalog) Resolve(nameOrAlias string) (model.AntennaSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name, ok := c.aliases[nameOrAlias]
	if !ok {
		return model.AntennaSpec{}, false
	}
	spec, ok := c.antennas[name]
	if !ok {
		return model.AntennaSpec{}, false
	}
	return deepcopy.Copy(spec).(model.AntennaSpec), true
}

// Lookup is Resolve with an *UnknownAntennaError for misses.
func (c *Catalog) Lookup(nameOrAlias string) (model.AntennaSpec, error) {
	if spec, ok := c.Resolve(nameOrAlias); ok {
		return spec, nil
	}
	return model.AntennaSpec{}, &UnknownAntennaError{
		Name:        nameOrAlias,
		Suggestions: c.Suggest(nameOrAlias, 3),
	}
}

// All returns every antenna ordered by name.
func (c *Catalog) All() []model.AntennaSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.AntennaSpec, 0, len(c.antennas))
	for _, spec := range c.antennas {
		out = append(out, deepcopy.Copy(spec).(model.AntennaSpec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of distinct antennas.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.antennas)
}

// Collisions lists aliases that a later definition pointed elsewhere, in
// the order they happened.
func (c *Catalog) Collisions() []AliasCollision {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]AliasCollision(nil), c.collisions...)
}

// Version fingerprints the loaded definition sources. It is empty until the
// first successful Load.
func (c *Catalog) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sources == 0 {
		return ""
	}
	return fmt.Sprintf("%016x", c.digest.Sum64())
}

// Suggest returns up to n canonical names whose name or aliases are close to
// s. Matching ignores case; names further than a third of the query length
// (at least 2 edits) are not offered.
func (c *Catalog) Suggest(s string, n int) []string {
	if n <= 0 || s == "" {
		return nil
	}
	query := strings.ToLower(s)
	limit := len(query) / 3
	if limit < 2 {
		limit = 2
	}

	c.mu.RLock()
	best := make(map[string]int)
	for alias, name := range c.aliases {
		d := levenshtein.ComputeDistance(query, strings.ToLower(alias))
		if d > limit {
			continue
		}
		if cur, ok := best[name]; !ok || d < cur {
			best[name] = d
		}
	}
	c.mu.RUnlock()

	names := make([]string, 0, len(best))
	for name := range best {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		di, dj := best[names[i]], best[names[j]]
		if di != dj {
			return di < dj
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
