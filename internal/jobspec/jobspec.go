package jobspec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vuecraft-labs/vuecraft/internal/failure"
)

// TemplateKind selects the major framework generation to scaffold.
type TemplateKind string

const (
	TemplateV2 TemplateKind = "v2"
	TemplateV3 TemplateKind = "v3"
)

// Language selects the generated source language.
type Language string

const (
	LangTS Language = "ts"
	LangJS Language = "js"
)

// ParseTemplateKind accepts "v2"/"v3" and the "vue2"/"vue3" aliases.
func ParseTemplateKind(s string) (TemplateKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v2", "vue2":
		return TemplateV2, nil
	case "v3", "vue3":
		return TemplateV3, nil
	}
	return "", failure.New(failure.UnsupportedTemplate, s,
		fmt.Sprintf("unsupported template %q: expected v2 or v3", s))
}

// ParseLanguage accepts "ts" or "js".
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ts", "typescript":
		return LangTS, nil
	case "js", "javascript":
		return LangJS, nil
	}
	return "", failure.New(failure.InvalidJob, s,
		fmt.Sprintf("unsupported language %q: expected ts or js", s))
}

// RegistryKey returns the key used for this kind in the persisted feature
// registry document ("vue2" / "vue3").
func (k TemplateKind) RegistryKey() string {
	return "vue" + strings.TrimPrefix(string(k), "v")
}

// Spec is the immutable input of one scaffold job.
type Spec struct {
	Template         TemplateKind
	Language         Language
	ProjectName      string
	TargetDirectory  string
	PersistAsDefault bool
	Features         []string
	InitGit          bool
}

// New builds a validated Spec. Features are de-duplicated keeping the first
// occurrence, so install order stays deterministic.
func New(template TemplateKind, lang Language, name, dir string, features []string) (Spec, error) {
	s := Spec{
		Template:        template,
		Language:        lang,
		ProjectName:     name,
		TargetDirectory: dir,
		Features:        dedupe(features),
	}
	return s, s.Validate()
}

// Validate checks the invariants every pipeline stage relies on.
func (s Spec) Validate() error {
	if s.Template != TemplateV2 && s.Template != TemplateV3 {
		return failure.New(failure.UnsupportedTemplate, string(s.Template),
			fmt.Sprintf("unsupported template %q", s.Template))
	}
	if s.Language != LangTS && s.Language != LangJS {
		return invalid(string(s.Language), "unsupported language %q", s.Language)
	}
	name := s.ProjectName
	if strings.TrimSpace(name) == "" {
		return invalid(name, "project name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return invalid(name, "project name %q must not contain path separators", name)
	}
	if s.TargetDirectory == "" || !filepath.IsAbs(s.TargetDirectory) {
		return invalid(s.TargetDirectory, "target directory %q must be an absolute path", s.TargetDirectory)
	}
	return nil
}

// ProjectDir returns the directory the generator creates.
func (s Spec) ProjectDir() string {
	return filepath.Join(s.TargetDirectory, s.ProjectName)
}

// Has reports whether feature key was requested.
func (s Spec) Has(key string) bool {
	for _, f := range s.Features {
		if f == key {
			return true
		}
	}
	return false
}

func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func invalid(subject, format string, args ...interface{}) error {
	return failure.New(failure.InvalidJob, subject, fmt.Sprintf(format, args...))
}
