package textguard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	"github.com/textguard/textguard/internal/engine"
	"github.com/textguard/textguard/internal/redact"
)

func init() {
	fix := &cobra.Command{Use: "fix", Short: "Rewrite files to remove what a scan found"}
	rootCmd.AddCommand(fix)

	var pattern, replace, types, summary string
	var dryRun bool
	redactCmd := &cobra.Command{
		Use:   "redact <file>...",
		Short: "Mask detected threats in files in place",
		Long: "Masks every detected threat in the given files, the same way detect masks text. " +
			"With --pattern, replaces matches of that regex with --replace instead.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rw, err := fixRewriter(pattern, replace, types)
			if err != nil {
				return err
			}
			var changed []string
			for _, file := range args {
				if dryRun {
					would, err := redact.WouldChange(file, rw)
					if err != nil {
						return err
					}
					if would {
						fmt.Fprintln(cmd.ErrOrStderr(), "would redact", file)
						changed = append(changed, file)
					}
					continue
				}
				ok, err := redact.Apply(file, rw)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Redacted", file)
					changed = append(changed, file)
				}
			}
			if len(changed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes needed")
			}
			if summary != "" {
				return writeFixSummary(summary, map[string]any{
					"action":    "fix.redact",
					"files":     changed,
					"pattern":   pattern,
					"dry_run":   dryRun,
					"timestamp": time.Now().Format(time.RFC3339),
				})
			}
			return nil
		},
	}
	redactCmd.Flags().StringVar(&pattern, "pattern", "", "regex to replace instead of detected threats")
	redactCmd.Flags().StringVar(&replace, "replace", "<redacted>", "replacement text for --pattern")
	redactCmd.Flags().StringVar(&types, "types", "", "only mask these threat types (comma-separated)")
	redactCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report files that would change without writing")
	redactCmd.Flags().StringVar(&summary, "summary", "", "write remediation summary JSON to this path")
	fix.AddCommand(redactCmd)
}

func fixRewriter(pattern, replace, typesCSV string) (redact.Rewriter, error) {
	if pattern != "" {
		rx, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		return redact.Replacements([]redact.Replacement{{Pattern: rx, Replace: replace}}), nil
	}
	cwd, _ := filepath.Abs(".")
	s, err := loadSettings(cwd)
	if err != nil {
		return nil, err
	}
	g, err := s.newGuard()
	if err != nil {
		return nil, err
	}
	tt, err := s.threatTypes(typesCSV)
	if err != nil {
		return nil, err
	}
	cfg := engine.Config{Types: tt}
	return func(text string) string { return engine.RedactData(g, cfg, text) }, nil
}

// writeFixSummary writes a JSON summary file for fix actions.
func writeFixSummary(path string, data map[string]any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
