package core

import (
	"context"

	"github.com/textguard/textguard/internal/catalog"
	"github.com/textguard/textguard/internal/engine"
	"github.com/textguard/textguard/internal/redact"
	"github.com/textguard/textguard/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Guard           = engine.Guard
	Option          = engine.Option
	DetectOptions   = engine.DetectOptions
	Config          = engine.Config
	Result          = engine.Result
	Pattern         = catalog.Pattern
	PatternOption   = catalog.Option
	ThreatType      = types.ThreatType
	ThreatInfo      = types.ThreatInfo
	DetectionResult = types.DetectionResult
	Finding         = types.Finding
	Severity        = types.Severity

	InvalidPatternError = catalog.InvalidPatternError
)

// ErrInvalidPattern matches every error returned for a blank or
// non-compiling pattern.
var ErrInvalidPattern = catalog.ErrInvalidPattern

const (
	Email            = types.Email
	PhoneNumber      = types.PhoneNumber
	SSN              = types.SSN
	CreditCard       = types.CreditCard
	IPv4Address      = types.IPv4Address
	IPv6Address      = types.IPv6Address
	PassportNumber   = types.PassportNumber
	DriverLicense    = types.DriverLicense
	LicensePlate     = types.LicensePlate
	BusinessNumber   = types.BusinessNumber
	CorporateNumber  = types.CorporateNumber
	AccountNumber    = types.AccountNumber
	SQLInjection     = types.SQLInjection
	XSSAttack        = types.XSSAttack
	ScriptInjection  = types.ScriptInjection
	CommandInjection = types.CommandInjection
	PromptInjection  = types.PromptInjection
	Custom           = types.Custom
)

// New returns a Guard loaded with the built-in patterns.
func New(opts ...Option) *Guard { return engine.New(opts...) }

var (
	WithLogger    = engine.WithLogger
	WithValidator = engine.WithValidator
	WithCatalog   = engine.WithCatalog

	WithDescription = catalog.WithDescription
	WithPriority    = catalog.WithPriority
	CaseSensitive   = catalog.CaseSensitive
	WithValidation  = catalog.WithValidation
)

// CompilePattern builds a Pattern for Guard.AddDetectionPattern or
// Guard.AddPatterns.
func CompilePattern(t ThreatType, expr string, opts ...PatternOption) (Pattern, error) {
	return catalog.Compile(t, expr, opts...)
}

// Mask applies format-preserving masks for threats to text.
func Mask(text string, threats []ThreatInfo) string { return redact.Mask(text, threats) }

// Scan is the stable entrypoint for scanning a directory tree.
func Scan(ctx context.Context, g *Guard, cfg Config) ([]Finding, error) {
	return engine.Scan(ctx, g, cfg)
}

// ScanWithStats scans a directory tree and reports timing and counts.
func ScanWithStats(ctx context.Context, g *Guard, cfg Config) (Result, error) {
	return engine.ScanWithStats(ctx, g, cfg)
}

// ThreatTypes lists every threat type.
func ThreatTypes() []ThreatType { return types.AllThreatTypes() }
