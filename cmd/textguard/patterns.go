package textguard

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/textguard/textguard/internal/catalog"
	"github.com/textguard/textguard/internal/engine"
	"github.com/textguard/textguard/internal/types"
)

type patternRow struct {
	Type        types.ThreatType `json:"type"`
	Priority    int              `json:"priority"`
	Severity    types.Severity   `json:"severity"`
	Validated   bool             `json:"validated"`
	Description string           `json:"description"`
	Regex       string           `json:"regex"`
}

func init() {
	cmd := &cobra.Command{Use: "patterns", Short: "Inspect and try detection patterns"}
	rootCmd.AddCommand(cmd)

	var only string
	list := &cobra.Command{
		Use:   "list",
		Short: "List active patterns in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, _ := os.Getwd()
			s, err := loadSettings(cwd)
			if err != nil {
				return err
			}
			g, err := s.newGuard()
			if err != nil {
				return err
			}
			ps := g.Patterns()
			if only != "" {
				t, err := types.ParseThreatType(only)
				if err != nil {
					return err
				}
				ps = g.PatternsByType(t)
			}
			rows := make([]patternRow, 0, len(ps))
			for _, p := range ps {
				rows = append(rows, patternRow{
					Type: p.Type, Priority: p.Priority, Severity: p.Type.Severity(),
					Validated: p.NeedsValidation, Description: p.Description, Regex: p.Regex.String(),
				})
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			table := tablewriter.NewWriter(out)
			table.Header("Priority", "Type", "Severity", "Description")
			for _, r := range rows {
				desc := r.Description
				if r.Validated {
					desc += " (checksum)"
				}
				_ = table.Append([]string{strconv.Itoa(r.Priority), string(r.Type), string(r.Severity), desc})
			}
			if err := table.Render(); err != nil {
				return err
			}
			builtIn, custom := g.PatternCount()
			fmt.Fprintf(out, "%d built-in, %d custom\n", builtIn, custom)
			return nil
		},
	}
	list.Flags().StringVar(&only, "type", "", "only list patterns of this threat type")
	cmd.AddCommand(list)

	var expr, typ string
	var caseSensitive bool
	try := &cobra.Command{
		Use:   "test --pattern <regex> [text]",
		Short: "Run a single custom pattern against text (argument or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := types.Custom
			if typ != "" {
				var err error
				if t, err = types.ParseThreatType(typ); err != nil {
					return err
				}
			}
			var opts []catalog.Option
			if caseSensitive {
				opts = append(opts, catalog.CaseSensitive())
			}
			c := catalog.NewEmpty()
			if err := c.AddPattern(t, expr, opts...); err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			res := engine.New(engine.WithCatalog(c), engine.WithLogger(log)).Detect(text, engine.DetectOptions{})
			out := cmd.OutOrStdout()
			if !res.HasThreats() {
				fmt.Fprintln(out, "no matches")
				return nil
			}
			for _, th := range res.Threats {
				fmt.Fprintf(out, "%s %d-%d %q\n", th.Type, th.Start, th.End, th.Value)
			}
			fmt.Fprintln(out, res.MaskedText)
			return nil
		},
	}
	try.Flags().StringVar(&expr, "pattern", "", "regular expression (RE2 syntax)")
	try.Flags().StringVar(&typ, "type", "", "threat type to report (default CUSTOM)")
	try.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case exactly")
	cmd.AddCommand(try)
}
