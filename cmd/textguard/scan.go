package textguard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/textguard/textguard/internal/audit"
	"github.com/textguard/textguard/internal/cache"
	"github.com/textguard/textguard/internal/engine"
	"github.com/textguard/textguard/internal/report"
	"github.com/textguard/textguard/pkg/core"
)

var (
	flagPath      string
	flagInclude   string
	flagExclude   string
	flagMaxBytes  int64
	flagTypes     string
	flagTable     bool
	flagText      bool
	flagBaseline  string
	flagAudit     bool
	flagProgress  bool
	flagNoResults bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan files for personal data and injection payloads",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to scan")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (default 1MiB)")
	cmd.Flags().StringVar(&flagTypes, "types", "", "only report these threat types (comma-separated)")
	cmd.Flags().BoolVar(&flagTable, "table", false, "output in table format with borders (default)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().StringVar(&flagBaseline, "baseline", report.DefaultBaselineFile, "baseline file; findings listed there are not reported")
	cmd.Flags().BoolVar(&flagAudit, "audit", false, "append a summary record to the audit log")
	cmd.Flags().BoolVar(&flagProgress, "progress", false, "print a progress counter to stderr")
	cmd.Flags().BoolVar(&flagNoResults, "no-save-results", false, "do not store the last scan results")
}

// scanConfig resolves engine.Config for root with precedence CLI > local > global.
func scanConfig(cmd *cobra.Command, root string, s settings) (engine.Config, error) {
	tt, err := s.threatTypes(flagTypes)
	if err != nil {
		return engine.Config{}, err
	}
	maxBytes := pickInt64(flagMaxBytes, s.local.MaxBytes, s.global.MaxBytes)
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return engine.Config{
		Root:            root,
		IncludeGlobs:    pickString(flagInclude, s.local.Include, s.global.Include),
		ExcludeGlobs:    pickString(flagExclude, s.local.Exclude, s.global.Exclude),
		MaxBytes:        maxBytes,
		Threads:         pickInt(flagThreads, s.local.Threads, s.global.Threads),
		Types:           tt,
		DefaultExcludes: pickChanged(cmd, "default-excludes", flagDefaultExcludes, s.local.DefaultExcludes, s.global.DefaultExcludes),
		NoCache:         pickBool(flagNoCache, s.local.NoCache, s.global.NoCache),
	}, nil
}

func runScan(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(flagPath)
	if err != nil {
		return err
	}
	if st, err := os.Stat(abs); err != nil || !st.IsDir() {
		return fmt.Errorf("not a directory: %s", flagPath)
	}
	s, err := loadSettings(abs)
	if err != nil {
		return err
	}
	failOn, err := s.failOn()
	if err != nil {
		return err
	}
	g, err := s.newGuard()
	if err != nil {
		return err
	}
	cfg, err := scanConfig(cmd, abs, s)
	if err != nil {
		return err
	}
	noColor := !colorEnabled(cmd.OutOrStdout(), pickBool(flagNoColor, s.local.NoColor, s.global.NoColor))
	stderr := cmd.ErrOrStderr()

	machine := flagJSON || flagSARIF
	if !machine {
		builtIn, custom := g.PatternCount()
		fmt.Fprintf(stderr, "Scanning %s with %d patterns (%d custom)...\n", abs, builtIn+custom, custom)
	}
	total := 0
	if flagProgress && !machine {
		total, _ = engine.CountTargets(cfg)
		progressed := 0
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				fmt.Fprintf(stderr, "\r[%d/%d]", progressed, total)
			}
		}
	}

	res, err := engine.ScanWithStats(cmdContext(cmd), g, cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if total > 0 {
		fmt.Fprintln(stderr)
	}
	metrics.RecordScan(res.Findings, res.FilesScanned, res.FilesCached, res.Duration)

	if !flagNoResults {
		if err := cache.SaveResults(abs, res.Findings); err != nil {
			log.Warn("last scan results not saved", zap.Error(err))
		}
	}

	baselinePath := flagBaseline
	if baselinePath != "" && !filepath.IsAbs(baselinePath) {
		baselinePath = filepath.Join(abs, baselinePath)
	}
	newFindings := res.Findings
	if baselinePath != "" {
		if base, err := report.LoadBaseline(baselinePath); err == nil {
			newFindings = report.FilterNewFindings(res.Findings, base)
		} else if !os.IsNotExist(err) {
			log.Warn("baseline ignored", zap.String("path", baselinePath), zap.Error(err))
		}
	}
	if flagAudit {
		rec := audit.NewRecord(abs, res.Findings, newFindings, res.FilesScanned, res.Duration, flagBaseline)
		if err := audit.New(abs).Append(rec); err != nil {
			log.Warn("audit record not written", zap.Error(err))
		}
	}

	out := cmd.OutOrStdout()
	opts := report.PrintOptions{NoColor: noColor, Duration: res.Duration, FilesScanned: res.FilesScanned, FilesCached: res.FilesCached}
	switch {
	case flagSARIF:
		stats := map[string]int{"filesScanned": res.FilesScanned, "filesCached": res.FilesCached}
		if err := report.WriteSARIFWithStats(out, newFindings, stats); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		if err := core.MarshalFindings(out, newFindings); err != nil {
			return err
		}
	case flagText:
		report.PrintText(out, newFindings, opts)
	default:
		report.PrintTable(out, newFindings, opts)
	}

	if report.ShouldFail(newFindings, failOn) {
		return exitCode(1)
	}
	return nil
}
