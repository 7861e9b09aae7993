package core

import (
	"encoding/json"
	"io"

	"github.com/textguard/textguard/internal/redact"
)

// MarshalFindings pretty-prints findings as JSON for humans or pipelines.
// A nil slice is written as [] rather than null.
func MarshalFindings(w io.Writer, findings []Finding) error {
	if findings == nil {
		findings = []Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// UnmarshalFindings decodes findings JSON, useful for ingestion tests.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	var fs []Finding
	if err := json.NewDecoder(r).Decode(&fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// ThreatJSON is the wire form of one detected threat.
type ThreatJSON struct {
	Type        ThreatType `json:"type"`
	Start       int        `json:"start"`
	End         int        `json:"end"`
	Value       string     `json:"value"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
}

// DetectionJSON is the wire form of a Detect result.
type DetectionJSON struct {
	Threats    []ThreatJSON `json:"threats"`
	MaskedText string       `json:"masked_text"`
}

// MarshalDetection writes res as indented JSON. Threat values are masked
// unless rawValues is set.
func MarshalDetection(w io.Writer, res DetectionResult, rawValues bool) error {
	doc := DetectionJSON{Threats: make([]ThreatJSON, 0, len(res.Threats)), MaskedText: res.MaskedText}
	for _, th := range res.Threats {
		v := th.Value
		if !rawValues {
			v = redact.MaskValue(th.Type, th.Value)
		}
		doc.Threats = append(doc.Threats, ThreatJSON{
			Type:        th.Type,
			Start:       th.Start,
			End:         th.End,
			Value:       v,
			Description: th.Description,
			Severity:    th.Type.Severity(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
