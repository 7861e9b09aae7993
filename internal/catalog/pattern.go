package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/textguard/textguard/internal/types"
)

// ErrInvalidPattern is matched by every *InvalidPatternError.
var ErrInvalidPattern = errors.New("invalid pattern")

// InvalidPatternError reports a blank or non-compiling pattern expression.
type InvalidPatternError struct {
	Expr   string
	Reason string
	Err    error
}

func (e *InvalidPatternError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid pattern %q: %s: %v", e.Expr, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Expr, e.Reason)
}

func (e *InvalidPatternError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidPattern, e.Err}
	}
	return []error{ErrInvalidPattern}
}

// Pattern is a single detection rule. Higher Priority runs first.
type Pattern struct {
	Type            types.ThreatType
	Regex           *regexp.Regexp
	Description     string
	NeedsValidation bool
	Priority        int
}

type patternOptions struct {
	description     string
	priority        int
	ignoreCase      bool
	needsValidation bool
}

// Option tunes a pattern created by Compile or Catalog.AddPattern.
type Option func(*patternOptions)

// WithDescription sets the human-readable description reported with matches.
func WithDescription(d string) Option { return func(o *patternOptions) { o.description = d } }

// WithPriority sets the ordering priority (default 0).
func WithPriority(p int) Option { return func(o *patternOptions) { o.priority = p } }

// CaseSensitive disables the default case-insensitive matching.
func CaseSensitive() Option { return func(o *patternOptions) { o.ignoreCase = false } }

// IgnoreCase sets case-insensitive matching explicitly.
func IgnoreCase(v bool) Option { return func(o *patternOptions) { o.ignoreCase = v } }

// WithValidation marks matches as needing the type's validator.
func WithValidation() Option { return func(o *patternOptions) { o.needsValidation = true } }

// Compile builds a Pattern from an expression. Case-insensitive matching is
// the default. A blank or non-compiling expression yields *InvalidPatternError.
func Compile(t types.ThreatType, expr string, opts ...Option) (Pattern, error) {
	o := patternOptions{ignoreCase: true}
	for _, fn := range opts {
		fn(&o)
	}
	if strings.TrimSpace(expr) == "" {
		return Pattern{}, &InvalidPatternError{Expr: expr, Reason: "pattern is blank"}
	}
	src := expr
	if o.ignoreCase {
		src = "(?i)" + expr
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return Pattern{}, &InvalidPatternError{Expr: expr, Reason: "does not compile", Err: err}
	}
	return Pattern{
		Type:            t,
		Regex:           re,
		Description:     o.description,
		NeedsValidation: o.needsValidation,
		Priority:        o.priority,
	}, nil
}

func (p Pattern) validate() error {
	if p.Regex == nil {
		return &InvalidPatternError{Reason: "regex is nil"}
	}
	if strings.TrimSpace(p.Regex.String()) == "" {
		return &InvalidPatternError{Expr: p.Regex.String(), Reason: "pattern is blank"}
	}
	return nil
}
