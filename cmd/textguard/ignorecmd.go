package textguard

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/textguard/textguard/internal/files"
	"github.com/textguard/textguard/internal/ignore"
)

func init() {
	cmd := &cobra.Command{Use: "ignore", Short: "Manage the .textguardignore file"}
	rootCmd.AddCommand(cmd)

	var root string
	var generated bool
	add := &cobra.Command{
		Use:   "add [pattern]...",
		Short: "Append glob patterns to .textguardignore",
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(root)
			if err != nil {
				return err
			}
			patterns := args
			if generated {
				patterns = append(patterns, files.DefaultGeneratedIgnores()...)
			}
			if len(patterns) == 0 {
				return fmt.Errorf("no patterns given")
			}
			for _, p := range patterns {
				if err := files.AppendIgnore(abs, p); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", filepath.Join(abs, ignore.FileName))
			return nil
		},
	}
	add.Flags().StringVarP(&root, "path", "p", ".", "repository root")
	add.Flags().BoolVar(&generated, "generated", false, "also add common generated-file patterns")
	cmd.AddCommand(add)
}
