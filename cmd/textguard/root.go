package textguard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/textguard/textguard/internal/logger"
	"github.com/textguard/textguard/internal/report"
	"github.com/textguard/textguard/internal/telemetry"
)

var (
	flagJSON            bool
	flagSARIF           bool
	flagThreads         int
	flagFailOn          string
	flagNoColor         bool
	flagNoCache         bool
	flagDefaultExcludes bool
	flagLogLevel        string
	flagLogFormat       string
	flagMetricsFile     string

	version = "0.1.0"

	log     = zap.NewNop()
	metrics = telemetry.New()
)

// rootCmd is the base Cobra command for the textguard CLI.
var rootCmd = &cobra.Command{
	Use:   "textguard",
	Short: "Find and mask personal data and injection payloads in text",
	Long: "textguard detects personal data (emails, phone numbers, national IDs, cards, ...) and " +
		"injection payloads (SQL, XSS, shell, prompt) in text and files, and masks what it finds.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		l, err := logger.New(logger.Config{Level: flagLogLevel, Format: flagLogFormat, Output: cmd.ErrOrStderr()})
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		log = l
		report.Version = version
		return nil
	},
}

// exitCode carries a non-error exit status (findings above --fail-on).
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// Execute runs the textguard CLI. It should be called by the main package.
func Execute() {
	err := rootCmd.Execute()
	_ = log.Sync()
	if flagMetricsFile != "" {
		if werr := metrics.WriteFile(flagMetricsFile); werr != nil {
			fmt.Fprintln(os.Stderr, "metrics warning:", werr)
		}
	}
	var code exitCode
	if errors.As(err, &code) {
		os.Exit(int(code))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

// colorEnabled reports whether w is a terminal and color was not disabled.
func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "emit JSON")
	pf.BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	pf.IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	pf.StringVar(&flagFailOn, "fail-on", "", "fail on low|medium|high (default medium)")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	pf.BoolVar(&flagNoCache, "no-cache", false, "disable incremental scan cache")
	pf.BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (node_modules, dist, images, etc.)")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	pf.StringVar(&flagLogFormat, "log-format", "console", "log format: console|json")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path on exit")
}
