package textguard

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/textguard/textguard/internal/engine"
	"github.com/textguard/textguard/internal/report"
	"github.com/textguard/textguard/internal/types"
)

func init() {
	var path string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescan files as they change until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
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
			noColor := !colorEnabled(cmd.OutOrStdout(), pickBool(flagNoColor, s.local.NoColor, s.global.NoColor))

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return engine.Watch(ctx, g, cfg, engine.WatchOptions{
				Ready: func() { fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl-C to stop)\n", abs) },
			}, func(rel string, fs []types.Finding) {
				metrics.RecordScan(fs, 1, 0, 0)
				if len(fs) == 0 {
					return
				}
				report.PrintText(out, fs, report.PrintOptions{NoColor: noColor})
			})
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", ".", "path to watch")
	rootCmd.AddCommand(cmd)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
