package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"github.com/vuecraft-labs/vuecraft/internal/userdata"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create a missing configuration root and tighten scaffold.env permissions")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local toolchain and configuration",
	Long:  `Run diagnostic checks on node, the package manager, and the files under the configuration root.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		runToolchainCheck(cmd, w)
		fmt.Fprintln(w)

		if err := userdata.CheckRoot(w, svc.Paths(), doctorFix); err != nil {
			return err
		}
		fmt.Fprintln(w)

		runEnvCheck(w)
		return nil
	},
}

func runToolchainCheck(cmd *cobra.Command, w io.Writer) {
	r := svc.Environment(cmd.Context())
	fmt.Fprintln(w, "Toolchain check:")

	if r.Node == "" {
		fmt.Fprintln(w, "  [MISS] node not found")
	} else {
		fmt.Fprintf(w, "  [ OK ] node %s\n", r.Node)
	}

	switch {
	case r.PackageManager == "":
		fmt.Fprintf(w, "  [MISS] %s not found\n", svc.Settings().Binary)
	case r.PackageManagerVersion == "":
		fmt.Fprintf(w, "  [WARN] %s found but --version failed\n", r.PackageManager)
	case r.MeetsMinimum == nil:
		fmt.Fprintf(w, "  [WARN] %s %s (cannot compare with %s)\n", r.PackageManager, r.PackageManagerVersion, r.MinVersion)
	case !*r.MeetsMinimum:
		fmt.Fprintf(w, "  [WARN] %s %s does not satisfy %s\n", r.PackageManager, r.PackageManagerVersion, r.MinVersion)
	default:
		fmt.Fprintf(w, "  [ OK ] %s %s\n", r.PackageManager, r.PackageManagerVersion)
	}

	if len(r.SystemPaths) > 0 {
		keys := make([]string, 0, len(r.SystemPaths))
		for k := range r.SystemPaths {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(w, "  Suggested locations:")
		for _, k := range keys {
			fmt.Fprintf(w, "    %-10s %s\n", k, r.SystemPaths[k])
		}
	}
}

func runEnvCheck(w io.Writer) {
	fmt.Fprintln(w, "Child process environment:")
	env, err := userdata.LoadEnv(svc.Paths())
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	if len(env) == 0 {
		fmt.Fprintln(w, "  (no overrides)")
		return
	}
	for _, e := range userdata.EnvEntries(env) {
		fmt.Fprintf(w, "  %s=%s\n", e.Key, userdata.RedactValue(e.Key, e.Value))
	}
}
