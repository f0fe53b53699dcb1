package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vuecraft-labs/vuecraft/internal/branding"
	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
)

var (
	createTemplate string
	createLang     string
	createDir      string
	createFeatures []string
	createDefault  bool
	createGit      bool
	createStream   bool
	createFrom     string
)

func init() {
	createCmd.Flags().StringVarP(&createTemplate, "template", "t", "v3", "Template: v3 (create-vue) or v2 (@vue/cli)")
	createCmd.Flags().StringVarP(&createLang, "lang", "l", "ts", "Language: ts or js")
	createCmd.Flags().StringVarP(&createDir, "dir", "d", "", "Parent directory (default: saved default or current directory)")
	createCmd.Flags().StringSliceVarP(&createFeatures, "feature", "f", nil, "Feature key to apply (repeatable, comma-separated)")
	createCmd.Flags().BoolVar(&createDefault, "save-default", false, "Remember the parent directory as the default")
	createCmd.Flags().BoolVar(&createGit, "git", false, "Initialize a git repository in the new project")
	createCmd.Flags().BoolVar(&createStream, "stream", false, "Run as a background job and stream its progress")
	createCmd.Flags().StringVar(&createFrom, "from", "", "Read the job from a YAML file")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Scaffold a new Vue project",
	Long: `Scaffold a new Vue project with the official generator, install its
dependencies, and apply the requested features.

Examples:
  ` + branding.CLIName() + ` create shop --feature router,pinia,sass
  ` + branding.CLIName() + ` create legacy-admin --template v2 --lang js --dir ~/work
  ` + branding.CLIName() + ` create --from job.yaml --stream`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := createSpec(cmd, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if createStream {
			stream := svc.CreateStreaming(spec)
			fmt.Fprintf(out, "Job %s started\n", stream.JobID())
			done := stream.Drain(func(line string) {
				fmt.Fprintln(out, line)
			})
			if !done.Success {
				return done.Err
			}
		} else if err := svc.Create(cmd.Context(), spec); err != nil {
			return err
		}

		fmt.Fprintf(out, "\nCreated %s\n\n", spec.ProjectDir())
		fmt.Fprintf(out, "Next steps:\n  cd %s\n  %s dev\n", spec.ProjectDir(), svc.Settings().Binary)
		return nil
	},
}

func createSpec(cmd *cobra.Command, args []string) (jobspec.Spec, error) {
	if createFrom != "" {
		if len(args) > 0 {
			return jobspec.Spec{}, fmt.Errorf("--from cannot be combined with a project name")
		}
		spec, err := jobspec.ParseFile(createFrom)
		if err != nil {
			return jobspec.Spec{}, err
		}
		if cmd.Flags().Changed("git") {
			spec.InitGit = createGit
		}
		if cmd.Flags().Changed("save-default") {
			spec.PersistAsDefault = createDefault
		}
		return spec, nil
	}

	if len(args) == 0 {
		return jobspec.Spec{}, fmt.Errorf("a project name is required (or use --from)")
	}
	kind, err := jobspec.ParseTemplateKind(createTemplate)
	if err != nil {
		return jobspec.Spec{}, err
	}
	lang, err := jobspec.ParseLanguage(createLang)
	if err != nil {
		return jobspec.Spec{}, err
	}
	dir, err := targetDirectory(createDir)
	if err != nil {
		return jobspec.Spec{}, err
	}

	spec, err := jobspec.New(kind, lang, args[0], dir, createFeatures)
	if err != nil {
		return jobspec.Spec{}, err
	}
	spec.PersistAsDefault = createDefault
	spec.InitGit = createGit
	return spec, nil
}

// targetDirectory returns flagValue, else the saved default directory, else
// the working directory, as an absolute path.
func targetDirectory(flagValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		saved, err := svc.DefaultDirectory()
		if err != nil {
			log.Warn("ignoring unreadable preferences", "error", err)
		}
		dir = saved
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}
	return filepath.Abs(expandHome(dir))
}

func expandHome(path string) string {
	if path == "~" || len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
