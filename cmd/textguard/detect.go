package textguard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/textguard/textguard/internal/engine"
	"github.com/textguard/textguard/internal/report"
	"github.com/textguard/textguard/internal/types"
	"github.com/textguard/textguard/pkg/core"
)

var (
	flagDetectTypes string
	flagNoMask      bool
	flagCopy        bool
	flagShowValues  bool
	flagVerbose     bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "detect [text]",
		Short: "Detect threats in a text argument or stdin and print it masked",
		Example: `  textguard detect "mail me at test@example.com"
  cat prompt.txt | textguard detect --json`,
		RunE: runDetect,
	}
	cmd.Flags().StringVar(&flagDetectTypes, "types", "", "only report these threat types (comma-separated)")
	cmd.Flags().BoolVar(&flagNoMask, "no-mask", false, "print the input unmodified")
	cmd.Flags().BoolVar(&flagCopy, "copy", false, "copy the masked text to the clipboard")
	cmd.Flags().BoolVar(&flagShowValues, "show-values", false, "include raw matched values in JSON output")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "list detected threats on stderr")
	rootCmd.AddCommand(cmd)
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	cwd, _ := os.Getwd()
	s, err := loadSettings(cwd)
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
	tt, err := s.threatTypes(flagDetectTypes)
	if err != nil {
		return err
	}
	res := g.Detect(text, engine.DetectOptions{
		Types:          tt,
		DisableMasking: pickBool(flagNoMask, s.local.DisableMasking, s.global.DisableMasking),
	})
	metrics.RecordDetect(res.Threats)

	out := cmd.OutOrStdout()
	if flagJSON {
		if err := core.MarshalDetection(out, res, flagShowValues); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, res.MaskedText)
		if !strings.HasSuffix(res.MaskedText, "\n") {
			fmt.Fprintln(out)
		}
		if flagVerbose {
			stderr := cmd.ErrOrStderr()
			for _, th := range res.Threats {
				fmt.Fprintf(stderr, "%-6s %-18s %d-%d  %s\n", th.Type.Severity(), th.Type, th.Start, th.End, th.Description)
			}
		}
	}

	if flagCopy {
		if err := clipboard.WriteAll(res.MaskedText); err != nil {
			log.Warn("clipboard unavailable", zap.Error(err))
		}
	}

	findings := make([]types.Finding, 0, len(res.Threats))
	for _, th := range res.Threats {
		findings = append(findings, types.Finding{Type: th.Type, Severity: th.Type.Severity()})
	}
	if report.ShouldFail(findings, failOn) {
		return exitCode(1)
	}
	return nil
}
