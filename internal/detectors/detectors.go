package detectors

import (
	"sort"

	"github.com/textguard/textguard/internal/catalog"
	"github.com/textguard/textguard/internal/types"
)

// Detector runs every active catalog pattern over a text and reports raw
// matches. It does not dedupe or resolve overlaps between patterns.
type Detector struct {
	catalog    *catalog.Catalog
	validators map[types.ThreatType]Validator
}

// New returns a detector reading patterns from c, with the default
// validators registered.
func New(c *catalog.Catalog) *Detector {
	d := &Detector{catalog: c, validators: make(map[types.ThreatType]Validator, len(defaultValidators))}
	for t, fn := range defaultValidators {
		d.validators[t] = fn
	}
	return d
}

// ValidatedTypes returns the threat types that have a validator, sorted.
func (d *Detector) ValidatedTypes() []types.ThreatType {
	out := make([]types.ThreatType, 0, len(d.validators))
	for t := range d.validators {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetValidator registers or replaces the validator for t. A nil fn removes it.
func (d *Detector) SetValidator(t types.ThreatType, fn Validator) {
	if fn == nil {
		delete(d.validators, t)
		return
	}
	d.validators[t] = fn
}

// DetectAll returns every accepted match of every pattern, in pattern order
// and then match order. End offsets are inclusive byte offsets.
func (d *Detector) DetectAll(text string) []types.ThreatInfo {
	if text == "" {
		return nil
	}
	var out []types.ThreatInfo
	for _, p := range d.catalog.All() {
		for _, loc := range p.Regex.FindAllStringIndex(text, -1) {
			if loc[1] <= loc[0] {
				continue
			}
			value := text[loc[0]:loc[1]]
			if p.NeedsValidation && !d.valid(p.Type, value) {
				continue
			}
			out = append(out, types.ThreatInfo{
				Type:        p.Type,
				Start:       loc[0],
				End:         loc[1] - 1,
				Value:       value,
				Description: p.Description,
			})
		}
	}
	return out
}

func (d *Detector) valid(t types.ThreatType, value string) bool {
	fn, ok := d.validators[t]
	if !ok {
		return true
	}
	return fn(value)
}
