package cache

import (
	"time"

	"github.com/textguard/textguard/internal/types"
)

// ScanResults is the last scan's findings, kept so a baseline can be built
// without scanning again. Matches are already masked when they get here.
type ScanResults struct {
	Findings  []types.Finding `json:"findings"`
	Timestamp time.Time       `json:"timestamp"`
	Root      string          `json:"root"`
	Count     int             `json:"count"`
}

const resultsName = "textguard_last_scan.json"

// SaveResults replaces the stored findings for root.
func SaveResults(root string, findings []types.Finding) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	return writeJSON(statePath(root, resultsName, "."+resultsName), ScanResults{
		Findings:  findings,
		Timestamp: time.Now(),
		Root:      root,
		Count:     len(findings),
	})
}

// LoadResults returns what SaveResults last stored for root.
func LoadResults(root string) (ScanResults, error) {
	var res ScanResults
	err := readJSON(statePath(root, resultsName, "."+resultsName), &res)
	return res, err
}
