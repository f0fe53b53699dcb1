package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var versionsJSON bool

func init() {
	versionsCmd.Flags().BoolVar(&versionsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(versionsCmd)
}

var versionsCmd = &cobra.Command{
	Use:   "versions <package>",
	Short: "List published versions of an npm package",
	Long:  `Query the registry through the package manager and print the newest versions first.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := svc.QueryVersions(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if versionsJSON {
			out, err := json.Marshal(list)
			if err != nil {
				return fmt.Errorf("marshaling versions: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		for _, v := range list {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}
