package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/textguard/textguard/internal/types"
)

func TestPrintText_NoFindings_ShowsFooter(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, nil, PrintOptions{Duration: 1200 * time.Millisecond, FilesScanned: 10})
	out := buf.String()
	if !strings.Contains(out, "No threats found") {
		t.Fatalf("expected friendly no-findings message; got: %q", out)
	}
	if !strings.Contains(out, "Files scanned: 10") {
		t.Fatalf("expected footer with files scanned; got: %q", out)
	}
}

func TestPrintText_WithFindings(t *testing.T) {
	var buf bytes.Buffer
	fs := []types.Finding{{Path: "a.txt", Line: 1, Column: 4, Match: "t**t@ex***le.***", Type: types.Email, Severity: types.SevMed}}
	PrintText(&buf, fs, PrintOptions{NoColor: true})
	out := buf.String()
	if !strings.Contains(out, "Findings: 1") {
		t.Fatalf("expected findings header; got: %q", out)
	}
	if !strings.Contains(out, "EMAIL") || !strings.Contains(out, "a.txt:1:4") {
		t.Fatalf("expected type and location; got: %q", out)
	}
}

func TestPrintTable_WithFindings(t *testing.T) {
	var buf bytes.Buffer
	fs := []types.Finding{{Path: "a.txt", Line: 1, Match: "900101-1******", Type: types.SSN, Severity: types.SevHigh}}
	PrintTable(&buf, fs, PrintOptions{NoColor: true})
	out := buf.String()
	if !strings.Contains(out, "SEVERITY") {
		t.Fatalf("expected table header with SEVERITY; got: %q", out)
	}
	if !strings.Contains(out, "SSN") || !strings.Contains(out, "900101-1******") {
		t.Fatalf("expected type and masked match in table; got: %q", out)
	}
	if !strings.Contains(out, "│") {
		t.Fatalf("expected table borders; got: %q", out)
	}
}

func TestPrintTable_NoFindings_ShowsFooter(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, nil, PrintOptions{Duration: 1200 * time.Millisecond, FilesScanned: 10})
	out := buf.String()
	if !strings.Contains(out, "No threats found") {
		t.Fatalf("expected friendly no-findings message; got: %q", out)
	}
	if !strings.Contains(out, "Files scanned: 10") {
		t.Fatalf("expected footer with files scanned; got: %q", out)
	}
}

func TestFooter_CountsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	fs := []types.Finding{
		{Path: "a", Line: 1, Type: types.SSN, Severity: types.SevHigh},
		{Path: "a", Line: 2, Type: types.Email, Severity: types.SevMed},
		{Path: "b", Line: 1, Type: types.LicensePlate, Severity: types.SevLow},
		{Path: "b", Line: 3, Type: types.SQLInjection, Severity: types.SevHigh},
	}
	PrintText(&buf, fs, PrintOptions{NoColor: true, FilesScanned: 2})
	if !strings.Contains(buf.String(), "high: 2, medium: 1, low: 1") {
		t.Fatalf("unexpected footer: %q", buf.String())
	}
}

func TestPrintText_ShowsKey(t *testing.T) {
	var buf bytes.Buffer
	fs := []types.Finding{{Path: "app.yaml", Line: 2, Match: "t**t@ex***le.***", Type: types.Email, Severity: types.SevMed, Key: "owner.email"}}
	PrintText(&buf, fs, PrintOptions{NoColor: true})
	if !strings.Contains(buf.String(), "(owner.email)") {
		t.Fatalf("expected key in output; got: %q", buf.String())
	}
}
