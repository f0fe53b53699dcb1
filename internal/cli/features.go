package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
	"github.com/vuecraft-labs/vuecraft/internal/registry"
)

var featuresJSON bool

func init() {
	featuresListCmd.Flags().BoolVar(&featuresJSON, "json", false, "Output in JSON format")
	featuresCmd.AddCommand(featuresListCmd)
	featuresCmd.AddCommand(featuresShowCmd)
	featuresCmd.AddCommand(featuresSaveCmd)
	rootCmd.AddCommand(featuresCmd)
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Inspect and edit the feature registry",
	Long:  `Features are optional add-ons (router, pinia, sass, ...) applied after a project is generated. They are read from components.json under the configuration root.`,
}

var featuresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered features",
	RunE: func(cmd *cobra.Command, args []string) error {
		features, err := svc.LoadRegistry()
		if err != nil {
			return err
		}

		if featuresJSON {
			out, err := json.MarshalIndent(features, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling features: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		if len(features) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No features registered.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tPACKAGES\tDEV\tSUPPORTS")
		for i := range features {
			f := &features[i]
			dev := ""
			if f.Dev {
				dev = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Key, strings.Join(f.PackageNames(), " "), dev, supportSummary(f))
		}
		return w.Flush()
	},
}

// supportSummary lists the template/language combinations a feature allows.
func supportSummary(f *registry.Feature) string {
	var combos []string
	for _, kind := range []jobspec.TemplateKind{jobspec.TemplateV2, jobspec.TemplateV3} {
		for _, lang := range []jobspec.Language{jobspec.LangTS, jobspec.LangJS} {
			if f.Supports(kind, lang) {
				combos = append(combos, string(kind)+"/"+string(lang))
			}
		}
	}
	if len(combos) == 0 {
		return "none"
	}
	return strings.Join(combos, ",")
}

var featuresShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the registry document",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := svc.RegistryDocument()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, string(data))
		if !strings.HasSuffix(string(data), "\n") {
			fmt.Fprintln(out)
		}
		return nil
	},
}

var featuresSaveCmd = &cobra.Command{
	Use:   "save <file|->",
	Short: "Replace the registry with a validated document",
	Long:  `Validate a registry document and atomically replace components.json with it. Use - to read from stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading registry document: %w", err)
		}

		if err := svc.SaveRegistry(data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", svc.Paths().RegistryPath())
		return nil
	},
}
