package catalog

import (
	"sort"

	"github.com/textguard/textguard/internal/types"
)

// Catalog holds the built-in patterns plus caller-registered custom ones.
//
// A Catalog is not synchronized. Reads (All, ByType, Count) may run
// concurrently with each other, but any mutation must be serialized by the
// caller and must not overlap with reads.
type Catalog struct {
	builtins []Pattern
	custom   []Pattern
	sorted   []Pattern // All() order, rebuilt on every mutation
}

// New returns a catalog loaded with the built-in patterns.
func New() *Catalog {
	c := &Catalog{builtins: Builtins()}
	c.resort()
	return c
}

// NewEmpty returns a catalog with no built-ins, useful for callers that only
// want their own rules.
func NewEmpty() *Catalog {
	return &Catalog{}
}

// AddPattern compiles expr and registers it as a custom pattern.
func (c *Catalog) AddPattern(t types.ThreatType, expr string, opts ...Option) error {
	p, err := Compile(t, expr, opts...)
	if err != nil {
		return err
	}
	c.append(p)
	return nil
}

// Add registers an already-built pattern.
func (c *Catalog) Add(p Pattern) error {
	if err := p.validate(); err != nil {
		return err
	}
	c.append(p)
	return nil
}

// AddAll registers every pattern or none of them.
func (c *Catalog) AddAll(ps []Pattern) error {
	for _, p := range ps {
		if err := p.validate(); err != nil {
			return err
		}
	}
	c.append(ps...)
	return nil
}

func (c *Catalog) append(ps ...Pattern) {
	if len(ps) == 0 {
		return
	}
	c.custom = append(c.custom, ps...)
	c.resort()
}

// RemoveByType drops every custom pattern of type t. Built-ins are untouched.
func (c *Catalog) RemoveByType(t types.ThreatType) {
	kept := c.custom[:0]
	for _, p := range c.custom {
		if p.Type != t {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(c.custom); i++ {
		c.custom[i] = Pattern{}
	}
	changed := len(kept) != len(c.custom)
	c.custom = kept
	if changed {
		c.resort()
	}
}

// ClearCustom drops every custom pattern.
func (c *Catalog) ClearCustom() {
	if len(c.custom) == 0 {
		return
	}
	c.custom = nil
	c.resort()
}

// Count returns the number of built-in and custom patterns.
func (c *Catalog) Count() (builtIn, custom int) {
	return len(c.builtins), len(c.custom)
}

// All returns a fresh snapshot of every active pattern, highest priority
// first. Equal priorities keep insertion order, built-ins before customs.
func (c *Catalog) All() []Pattern {
	out := make([]Pattern, len(c.sorted))
	copy(out, c.sorted)
	return out
}

func (c *Catalog) resort() {
	all := make([]Pattern, 0, len(c.builtins)+len(c.custom))
	all = append(all, c.builtins...)
	all = append(all, c.custom...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Priority > all[j].Priority })
	c.sorted = all
}

// ByType returns the active patterns of type t in priority order.
func (c *Catalog) ByType(t types.ThreatType) []Pattern {
	var out []Pattern
	for _, p := range c.All() {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}
