package jobspec

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/vuecraft-labs/vuecraft/internal/failure"
	"github.com/vuecraft-labs/vuecraft/internal/schema"
)

//go:embed schema/job.schema.json
var jobSchema []byte

var validator = schema.New("job.schema.json", jobSchema)

// File is the on-disk YAML shape of a job.
type File struct {
	Template   string   `yaml:"template,omitempty"`
	Language   string   `yaml:"language,omitempty"`
	Name       string   `yaml:"name"`
	Directory  string   `yaml:"directory"`
	SetDefault bool     `yaml:"set_default,omitempty"`
	Git        bool     `yaml:"git,omitempty"`
	Features   []string `yaml:"features,omitempty"`
}

// ParseFile reads, validates, and decodes a YAML job file. Relative
// directories are resolved against the job file's own directory.
func ParseFile(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("reading job file %s: %w", path, err)
	}
	spec, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return Spec{}, fmt.Errorf("job file %s: %w", path, err)
	}
	return spec, nil
}

// Parse validates and decodes YAML job data.
func Parse(data []byte, baseDir string) (Spec, error) {
	result, err := validator.ValidateYAML(data)
	if err != nil {
		return Spec{}, failure.Wrap(failure.InvalidJob, "", "invalid job document", err)
	}
	if !result.Valid {
		return Spec{}, failure.New(failure.InvalidJob, "", "invalid job document: "+result.Summary())
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Spec{}, failure.Wrap(failure.InvalidJob, "", "decoding job document", err)
	}
	return f.Spec(baseDir)
}

// Spec converts the file into a validated Spec, applying defaults
// (template v3, language ts).
func (f File) Spec(baseDir string) (Spec, error) {
	if f.Template == "" {
		f.Template = string(TemplateV3)
	}
	if f.Language == "" {
		f.Language = string(LangTS)
	}
	kind, err := ParseTemplateKind(f.Template)
	if err != nil {
		return Spec{}, err
	}
	lang, err := ParseLanguage(f.Language)
	if err != nil {
		return Spec{}, err
	}

	dir := f.Directory
	if !filepath.IsAbs(dir) && baseDir != "" {
		dir = filepath.Join(baseDir, dir)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	spec, err := New(kind, lang, f.Name, dir, f.Features)
	if err != nil {
		return Spec{}, err
	}
	spec.PersistAsDefault = f.SetDefault
	spec.InitGit = f.Git
	return spec, nil
}
