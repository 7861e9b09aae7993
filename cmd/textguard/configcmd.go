package textguard

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/textguard/textguard/internal/config"
	"github.com/textguard/textguard/internal/types"
)

var (
	cfgPreset           string
	cfgOutput           string
	cfgTypes            string
	cfgThreads          int
	cfgMaxBytes         int64
	cfgFailOn           string
	cfgNoColor          bool
	cfgDefaultExcludes  bool
	cfgStrictValidators bool
	cfgExamplePattern   bool
	cfgForce            bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .textguard.yml with selected threat types and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgPreset, "preset", "standard", "threat type preset: standard | pii | attacks")
	initCmd.Flags().StringVar(&cfgOutput, "output", ".textguard.yml", "output file path")
	initCmd.Flags().StringVar(&cfgTypes, "types", "", "comma-separated threat types (overrides preset if set)")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	initCmd.Flags().StringVar(&cfgFailOn, "fail-on", "medium", "fail on low|medium|high")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
	initCmd.Flags().BoolVar(&cfgStrictValidators, "strict-validators", false, "enable opt-in checksum validators")
	initCmd.Flags().BoolVar(&cfgExamplePattern, "example-pattern", false, "include a sample custom pattern")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

// presetTypes returns the types for a preset; "" means every type.
func presetTypes(preset string) (string, error) {
	var want func(types.ThreatType) bool
	switch strings.ToLower(preset) {
	case "", "standard":
		return "", nil
	case "pii":
		want = func(t types.ThreatType) bool { return !t.IsAttack() && t != types.Custom }
	case "attacks":
		want = types.ThreatType.IsAttack
	default:
		return "", fmt.Errorf("unknown preset %q", preset)
	}
	var names []string
	for _, t := range types.AllThreatTypes() {
		if want(t) {
			names = append(names, string(t))
		}
	}
	return strings.Join(names, ","), nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	typesCSV := strings.TrimSpace(cfgTypes)
	if typesCSV == "" {
		var err error
		if typesCSV, err = presetTypes(cfgPreset); err != nil {
			return err
		}
	} else if _, err := types.ParseThreatTypes(typesCSV); err != nil {
		return err
	}
	if !cfgForce {
		if _, err := os.Stat(cfgOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
		}
	}

	fc := config.FileConfig{
		MaxBytes:         int64Ptr(cfgMaxBytes),
		Types:            optStrPtr(typesCSV),
		Threads:          intPtr(cfgThreads),
		FailOn:           strPtr(cfgFailOn),
		NoColor:          boolPtr(cfgNoColor),
		DefaultExcludes:  boolPtr(cfgDefaultExcludes),
		StrictValidators: boolPtr(cfgStrictValidators),
	}
	if cfgExamplePattern {
		fc.Patterns = []config.PatternConfig{{
			Type:        string(types.Custom),
			Pattern:     `\bEMP-\d{6}\b`,
			Description: "Employee ID",
			Priority:    55,
		}}
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool     { return &v }
