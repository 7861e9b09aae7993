package types

import (
	"fmt"
	"strings"
)

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// ThreatType is the closed set of categories a detection pattern can report.
type ThreatType string

const (
	Email           ThreatType = "EMAIL"
	PhoneNumber     ThreatType = "PHONE_NUMBER"
	SSN             ThreatType = "SSN"
	CreditCard      ThreatType = "CREDIT_CARD"
	IPv4Address     ThreatType = "IP_V4_ADDRESS"
	IPv6Address     ThreatType = "IP_V6_ADDRESS"
	PassportNumber  ThreatType = "PASSPORT_NUMBER"
	DriverLicense   ThreatType = "DRIVER_LICENSE"
	LicensePlate    ThreatType = "LICENSE_PLATE"
	BusinessNumber  ThreatType = "BUSINESS_NUMBER"
	CorporateNumber ThreatType = "CORPORATE_NUMBER"
	AccountNumber   ThreatType = "ACCOUNT_NUMBER"

	SQLInjection     ThreatType = "SQL_INJECTION"
	XSSAttack        ThreatType = "XSS_ATTACK"
	ScriptInjection  ThreatType = "SCRIPT_INJECTION"
	CommandInjection ThreatType = "COMMAND_INJECTION"
	PromptInjection  ThreatType = "PROMPT_INJECTION"

	Custom ThreatType = "CUSTOM"
)

var allThreatTypes = []ThreatType{
	Email, PhoneNumber, SSN, CreditCard, IPv4Address, IPv6Address, PassportNumber,
	DriverLicense, LicensePlate, BusinessNumber, CorporateNumber, AccountNumber,
	SQLInjection, XSSAttack, ScriptInjection, CommandInjection, PromptInjection,
	Custom,
}

// AllThreatTypes returns every threat type in declaration order.
func AllThreatTypes() []ThreatType {
	out := make([]ThreatType, len(allThreatTypes))
	copy(out, allThreatTypes)
	return out
}

// ParseThreatType accepts the canonical name in any case, with '-' or '_'.
func ParseThreatType(s string) (ThreatType, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, t := range allThreatTypes {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown threat type %q", s)
}

// ParseThreatTypes parses a comma-separated list. An empty string yields nil.
func ParseThreatTypes(csv string) ([]ThreatType, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	var out []ThreatType
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseThreatType(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// IsAttack reports whether t is an injection/attack category rather than PII.
func (t ThreatType) IsAttack() bool {
	switch t {
	case SQLInjection, XSSAttack, ScriptInjection, CommandInjection, PromptInjection:
		return true
	}
	return false
}

// Severity maps a threat type to the level used by reports and --fail-on.
func (t ThreatType) Severity() Severity {
	if t.IsAttack() {
		return SevHigh
	}
	switch t {
	case SSN, CreditCard, PassportNumber, DriverLicense, AccountNumber:
		return SevHigh
	case LicensePlate, BusinessNumber, CorporateNumber:
		return SevLow
	}
	return SevMed
}

// ThreatInfo is one accepted pattern match. End is inclusive, and both
// offsets are byte offsets, so text[Start:End+1] == Value.
type ThreatInfo struct {
	Type        ThreatType `json:"type"`
	Start       int        `json:"start"`
	End         int        `json:"end"`
	Value       string     `json:"value"`
	Description string     `json:"description"`
}

// DetectionResult is the outcome of a single Detect call.
type DetectionResult struct {
	OriginalText string       `json:"-"`
	Threats      []ThreatInfo `json:"threats"`
	MaskedText   string       `json:"masked_text"`
}

// HasThreats reports whether anything was detected.
func (r DetectionResult) HasThreats() bool { return len(r.Threats) > 0 }

// Finding describes a threat detected in a file during a scan. Match holds
// the masked value; raw values never leave the engine through a Finding.
type Finding struct {
	Path        string     `json:"path"`
	Line        int        `json:"line"`
	Column      int        `json:"column,omitempty"`
	Match       string     `json:"match"`
	Type        ThreatType `json:"type"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description,omitempty"`
	// Key is the JSON/YAML key path holding the value, when known.
	Key string `json:"key,omitempty"`
}
