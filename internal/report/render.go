package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/textguard/textguard/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	FilesCached  int
}

var (
	highStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	medStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func sortFindings(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Column < findings[j].Column
	})
}

func location(f types.Finding) string {
	loc := f.Path + ":" + strconv.Itoa(f.Line)
	if f.Column > 0 {
		loc += ":" + strconv.Itoa(f.Column)
	}
	return loc
}

// PrintTable renders findings as a bordered table followed by a summary.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	sortFindings(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No threats found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("Severity", "Type", "Location", "Match")
		for _, f := range findings {
			sev := string(f.Severity)
			if !opts.NoColor {
				sev = colorSeverity(f.Severity)
			}
			_ = table.Append([]string{sev, string(f.Type), location(f), f.Match})
		}
		_ = table.Render()
	}
	printFooter(w, findings, opts)
}

// PrintText renders one finding per line.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	sortFindings(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No threats found ✅")
	} else {
		maxType := 8
		for _, f := range findings {
			if l := len(f.Type); l > maxType {
				maxType = l
			}
		}
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			sev := fmt.Sprintf("%-6s", f.Severity)
			if !opts.NoColor {
				sev = colorSeverity(f.Severity)
			}
			line := fmt.Sprintf("%s %-*s %s  %s", sev, maxType, f.Type, location(f), f.Match)
			if f.Key != "" {
				line += "  (" + f.Key + ")"
			}
			fmt.Fprintln(w, line)
		}
	}
	printFooter(w, findings, opts)
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	c := CountBySeverity(findings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (high: %d, medium: %d, low: %d)\n", len(findings), c[types.SevHigh], c[types.SevMed], c[types.SevLow])
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
	if opts.FilesCached > 0 {
		fmt.Fprintf(w, "Files unchanged (cached): %d\n", opts.FilesCached)
	}
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []types.Finding) map[types.Severity]int {
	out := map[types.Severity]int{}
	for _, f := range findings {
		out[f.Severity]++
	}
	return out
}

// CountByType tallies findings per threat type.
func CountByType(findings []types.Finding) map[types.ThreatType]int {
	out := map[types.ThreatType]int{}
	for _, f := range findings {
		out[f.Type]++
	}
	return out
}

func colorSeverity(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return highStyle.Render("high")
	case types.SevMed:
		return medStyle.Render("medium")
	default:
		return lowStyle.Render("low")
	}
}
