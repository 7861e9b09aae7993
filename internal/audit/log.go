// Package audit appends one JSON line per scan to a local audit log. Records
// carry counts and locations only; matched values are never written.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/textguard/textguard/internal/types"
)

// FileName is used when the scan root is not a git checkout.
const FileName = ".textguard_audit.jsonl"

type ScanRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	ScanID         string           `json:"scan_id"`
	Root           string           `json:"root"`
	TotalFindings  int              `json:"total_findings"`
	NewFindings    int              `json:"new_findings"`
	BaselinedCount int              `json:"baselined_count"`
	SeverityCounts map[string]int   `json:"severity_counts"`
	TypeCounts     map[string]int   `json:"type_counts"`
	FilesScanned   int              `json:"files_scanned"`
	Duration       string           `json:"duration"`
	BaselineFile   string           `json:"baseline_file,omitempty"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	Path     string `json:"path"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
}

type Log struct {
	path string
}

// New places the log inside .git when root is a checkout, otherwise at
// root/FileName.
func New(root string) *Log {
	path := filepath.Join(root, FileName)
	if st, err := os.Stat(filepath.Join(root, ".git")); err == nil && st.IsDir() {
		path = filepath.Join(root, ".git", "textguard_audit.jsonl")
	}
	return &Log{path: path}
}

func (a *Log) Path() string { return a.path }

// History returns all records, newest first. Malformed lines are skipped.
func (a *Log) History() ([]ScanRecord, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var r ScanRecord
		if err := dec.Decode(&r); err != nil {
			break
		}
		records = append(records, r)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *Log) Append(r ScanRecord) error {
	if r.ScanID == "" {
		r.ScanID = fmt.Sprintf("scan_%d", r.Timestamp.Unix())
	}
	// owner-only: records list file paths that contain personal data
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(r); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// NewRecord summarises a scan. newFindings is the subset left after the
// baseline filter.
func NewRecord(root string, all, newFindings []types.Finding, filesScanned int, d time.Duration, baselineFile string) ScanRecord {
	sev := map[string]int{}
	byType := map[string]int{}
	for _, f := range all {
		sev[string(f.Severity)]++
		byType[string(f.Type)]++
	}

	top := make([]types.Finding, len(newFindings))
	copy(top, newFindings)
	rank := map[types.Severity]int{types.SevHigh: 0, types.SevMed: 1, types.SevLow: 2}
	sort.SliceStable(top, func(i, j int) bool { return rank[top[i].Severity] < rank[top[j].Severity] })
	if len(top) > 10 {
		top = top[:10]
	}
	summaries := make([]FindingSummary, 0, len(top))
	for _, f := range top {
		summaries = append(summaries, FindingSummary{Path: f.Path, Type: string(f.Type), Severity: string(f.Severity), Line: f.Line})
	}

	return ScanRecord{
		Timestamp:      time.Now().UTC(),
		Root:           root,
		TotalFindings:  len(all),
		NewFindings:    len(newFindings),
		BaselinedCount: len(all) - len(newFindings),
		SeverityCounts: sev,
		TypeCounts:     byType,
		FilesScanned:   filesScanned,
		Duration:       d.String(),
		BaselineFile:   baselineFile,
		TopFindings:    summaries,
	}
}
