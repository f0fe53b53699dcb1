package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vuecraft-labs/vuecraft/internal/target"
)

var checkDir string

func init() {
	checkCmd.Flags().StringVar(&checkDir, "dir", "", "Parent directory (default: saved default or current directory)")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <name>",
	Short: "Check that a project directory is free",
	Long:  `Report whether <dir>/<name> is absent or empty and can be scaffolded into.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := targetDirectory(checkDir)
		if err != nil {
			return err
		}
		if err := svc.CheckTarget(dir, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is available\n", target.ProjectDir(dir, args[0]))
		return nil
	},
}
