package textguard

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/textguard/textguard/internal/cache"
	"github.com/textguard/textguard/internal/engine"
	"github.com/textguard/textguard/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var fromLast bool
	var path string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update baseline from current scan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			out := filepath.Join(abs, report.DefaultBaselineFile)
			if fromLast {
				last, err := cache.LoadResults(abs)
				if err != nil {
					return fmt.Errorf("no stored scan results; run `textguard scan` first: %w", err)
				}
				if err := report.SaveBaseline(out, last.Findings); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated from scan at %s (%d findings).\n", last.Timestamp.Format("2006-01-02 15:04"), last.Count)
				return nil
			}
			s, err := loadSettings(abs)
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
			cfg.NoCache = true
			results, err := engine.Scan(cmdContext(cmd), g, cfg)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(out, results); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated (%d findings).\n", len(results))
			return nil
		},
	}
	update.Flags().BoolVar(&fromLast, "from-last", false, "use the stored results of the last scan instead of scanning")
	update.Flags().StringVarP(&path, "path", "p", ".", "repository root")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}

