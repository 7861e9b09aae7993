package engine

import (
	"sort"

	"go.uber.org/zap"

	"github.com/textguard/textguard/internal/catalog"
	"github.com/textguard/textguard/internal/detectors"
	"github.com/textguard/textguard/internal/redact"
	"github.com/textguard/textguard/internal/types"
)

// Guard detects PII and injection payloads in text and produces masked
// copies. Detect only reads the catalog and may be called from many
// goroutines at once; pattern management must not overlap with it.
type Guard struct {
	catalog  *catalog.Catalog
	detector *detectors.Detector
	log      *zap.Logger
}

// Option configures a Guard.
type Option func(*guardOptions)

type guardOptions struct {
	catalog    *catalog.Catalog
	log        *zap.Logger
	validators map[types.ThreatType]detectors.Validator
}

// WithLogger sets the logger. Only types, counts and offsets are logged.
func WithLogger(l *zap.Logger) Option {
	return func(o *guardOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithCatalog replaces the default built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *guardOptions) { o.catalog = c }
}

// WithValidator registers a validator for t, replacing any default one.
func WithValidator(t types.ThreatType, fn detectors.Validator) Option {
	return func(o *guardOptions) {
		if o.validators == nil {
			o.validators = map[types.ThreatType]detectors.Validator{}
		}
		o.validators[t] = fn
	}
}

// New builds a Guard over the built-in catalog unless WithCatalog is given.
func New(opts ...Option) *Guard {
	o := guardOptions{log: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.catalog == nil {
		o.catalog = catalog.New()
	}
	d := detectors.New(o.catalog)
	for t, fn := range o.validators {
		d.SetValidator(t, fn)
	}
	return &Guard{catalog: o.catalog, detector: d, log: o.log}
}

// DetectOptions narrows a Detect call.
type DetectOptions struct {
	// Types keeps only threats of these types. Nil keeps everything; a
	// non-nil empty slice keeps nothing.
	Types []types.ThreatType
	// DisableMasking leaves MaskedText equal to the input.
	DisableMasking bool
}

type span struct{ start, end int }

// Detect runs every active pattern over text. Threats sharing an identical
// span collapse to the first one found, and the result is ordered by start
// offset. Detect never fails; an empty text yields no threats.
func (g *Guard) Detect(text string, opts DetectOptions) types.DetectionResult {
	raw := g.detector.DetectAll(text)

	var keep map[types.ThreatType]bool
	if opts.Types != nil {
		keep = make(map[types.ThreatType]bool, len(opts.Types))
		for _, t := range opts.Types {
			keep[t] = true
		}
	}

	seen := make(map[span]bool, len(raw))
	threats := make([]types.ThreatInfo, 0, len(raw))
	for _, th := range raw {
		if keep != nil && !keep[th.Type] {
			continue
		}
		k := span{th.Start, th.End}
		if seen[k] {
			continue
		}
		seen[k] = true
		threats = append(threats, th)
	}
	sort.SliceStable(threats, func(i, j int) bool { return threats[i].Start < threats[j].Start })

	masked := text
	if !opts.DisableMasking {
		masked = redact.Mask(text, threats)
	}
	if len(threats) > 0 {
		g.log.Debug("threats detected",
			zap.Int("bytes", len(text)),
			zap.Int("raw", len(raw)),
			zap.Int("threats", len(threats)))
	}
	return types.DetectionResult{OriginalText: text, Threats: threats, MaskedText: masked}
}

// AddPattern compiles and registers a custom pattern.
func (g *Guard) AddPattern(t types.ThreatType, expr string, opts ...catalog.Option) error {
	return g.catalog.AddPattern(t, expr, opts...)
}

// AddDetectionPattern registers an already-built pattern.
func (g *Guard) AddDetectionPattern(p catalog.Pattern) error { return g.catalog.Add(p) }

// AddPatterns registers every pattern or, on the first invalid one, none.
func (g *Guard) AddPatterns(ps []catalog.Pattern) error { return g.catalog.AddAll(ps) }

// RemovePatternsByType drops the custom patterns of type t.
func (g *Guard) RemovePatternsByType(t types.ThreatType) { g.catalog.RemoveByType(t) }

// ClearCustomPatterns drops every custom pattern.
func (g *Guard) ClearCustomPatterns() { g.catalog.ClearCustom() }

// PatternCount returns the number of built-in and custom patterns.
func (g *Guard) PatternCount() (builtIn, custom int) { return g.catalog.Count() }

// PatternsByType returns the active patterns of type t.
func (g *Guard) PatternsByType(t types.ThreatType) []catalog.Pattern { return g.catalog.ByType(t) }

// Patterns returns every active pattern in priority order.
func (g *Guard) Patterns() []catalog.Pattern { return g.catalog.All() }

// SetValidator registers or replaces the validator for t.
func (g *Guard) SetValidator(t types.ThreatType, fn detectors.Validator) {
	g.detector.SetValidator(t, fn)
}
