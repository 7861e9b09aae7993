package report

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/textguard/textguard/internal/types"
)

// DefaultBaselineFile is the baseline written by `baseline update`.
const DefaultBaselineFile = "textguard.baseline.json"

type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, err
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[key(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[key(f)] {
			out = append(out, f)
		}
	}
	return out
}

// key identifies a finding independently of its line, so edits elsewhere in
// a file do not resurface baselined findings. Match is already masked.
func key(f types.Finding) string {
	return f.Path + "|" + string(f.Type) + "|" + f.Match
}

var severityLevel = map[string]int{"low": 1, "medium": 2, "high": 3}

// ValidFailOn reports whether s names a severity threshold.
func ValidFailOn(s string) bool {
	_, ok := severityLevel[strings.ToLower(s)]
	return ok
}

// ShouldFail reports whether any finding is at or above failOn. An unknown
// threshold is treated as medium.
func ShouldFail(findings []types.Finding, failOn string) bool {
	th := severityLevel[strings.ToLower(failOn)]
	if th == 0 {
		th = 2
	}
	for _, f := range findings {
		if severityLevel[string(f.Severity)] >= th {
			return true
		}
	}
	return false
}
