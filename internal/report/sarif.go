package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/textguard/textguard/internal/types"
)

// Version is stamped into SARIF output; the CLI overrides it at startup.
var Version = "dev"

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
	Properties       sarifRuleProps `json:"properties"`
}

type sarifRuleProps struct {
	Severity string   `json:"severity"`
	Tags     []string `json:"tags"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int          `json:"startLine"`
	StartColumn int          `json:"startColumn,omitempty"`
	Snippet     sarifMessage `json:"snippet"`
}

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "error"
	case types.SevMed:
		return "warning"
	default:
		return "note"
	}
}

func ruleTags(t types.ThreatType) []string {
	if t.IsAttack() {
		return []string{"security", "injection"}
	}
	return []string{"privacy", "pii"}
}

// WriteSARIF writes findings as SARIF 2.1.0 to the provided writer.
func WriteSARIF(w io.Writer, findings []types.Finding) error {
	return WriteSARIFWithStats(w, findings, nil)
}

// WriteSARIFWithStats is WriteSARIF with scan statistics attached to the
// run's properties.
func WriteSARIFWithStats(w io.Writer, findings []types.Finding, stats map[string]int) error {
	var ids []types.ThreatType
	seen := map[types.ThreatType]bool{}
	for _, f := range findings {
		if !seen[f.Type] {
			seen[f.Type] = true
			ids = append(ids, f.Type)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{Name: "textguard", Version: Version}},
	}
	index := make(map[types.ThreatType]int, len(ids))
	for i, id := range ids {
		index[id] = i
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
			ID:               string(id),
			Name:             string(id),
			ShortDescription: sarifMessage{Text: string(id) + " detected"},
			Properties:       sarifRuleProps{Severity: string(id.Severity()), Tags: ruleTags(id)},
		})
	}
	run.Results = make([]sarifResult, 0, len(findings))
	for _, f := range findings {
		msg := string(f.Type) + " detected"
		if f.Description != "" {
			msg = f.Description
		}
		if f.Key != "" {
			msg += " in " + f.Key
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    string(f.Type),
			RuleIndex: index[f.Type],
			Level:     sevToLevel(f.Severity),
			Message:   sarifMessage{Text: msg},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: f.Path},
					Region: sarifRegion{
						StartLine:   f.Line,
						StartColumn: f.Column,
						Snippet:     sarifMessage{Text: f.Match},
					},
				},
			}},
		})
	}
	if len(stats) > 0 {
		run.Properties = map[string]any{"artifactStats": stats}
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
