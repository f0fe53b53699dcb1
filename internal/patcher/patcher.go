package patcher

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
)

//go:embed assets
var assetFS embed.FS

// Feature keys that carry patch rules.
const (
	FeatureSass   = "sass"
	FeatureVfonts = "vfonts"
	FeaturePinia  = "pinia"
)

const (
	sassImport      = "import './styles/main.scss'"
	persistedModule = "pinia-plugin-persistedstate"
	persistedImport = "import persisted from '" + persistedModule + "'"
)

var vfontsImports = []string{
	"import 'vfonts/Lato.css'",
	"import 'vfonts/FiraCode.css'",
}

var (
	// app.use(createPinia()) as a statement of its own, any inner whitespace.
	knownPiniaCall = regexp.MustCompile(`(?m)^([ \t]*)app\.use\(\s*createPinia\(\s*\)\s*\)`)
	// const|let|var <id> = createPinia() on its own line.
	piniaDecl = regexp.MustCompile(`(?m)^([ \t]*)(?:const|let|var)[ \t]+([A-Za-z_$][\w$]*)[ \t]*=[ \t]*createPinia\([ \t]*\)[ \t]*;?[ \t]*$`)
	// Any existing registration of the plugin.
	persistedUse = regexp.MustCompile(`\.use\(\s*persisted\s*\)`)
)

// Request describes which patches apply to a project.
type Request struct {
	ProjectDir string
	Template   jobspec.TemplateKind
	Language   jobspec.Language
	// Features holds the keys of matched features.
	Features map[string]bool
}

func (r Request) piniaRewrite() bool {
	return r.Template == jobspec.TemplateV3 && r.Features[FeaturePinia]
}

// Result reports what a patch operation changed.
type Result struct {
	EntryFile  string
	Skipped    bool // no entry file found
	AddedLines []string
	Rewritten  bool
	Created    []string
}

// Changed reports whether anything was written.
func (r *Result) Changed() bool {
	return len(r.AddedLines) > 0 || r.Rewritten || len(r.Created) > 0
}

// EntryFile returns the generated application entry file, preferring the
// requested language and falling back to the other one.
func EntryFile(projectDir string, lang jobspec.Language) (string, bool) {
	names := []string{"main.ts", "main.js"}
	if lang == jobspec.LangJS {
		names = []string{"main.js", "main.ts"}
	}
	for _, name := range names {
		path := filepath.Join(projectDir, "src", name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// PatchEntry prepends missing import lines to the entry file and, for Pinia
// under Vue 3, wires the persistence plugin into the store setup.
func PatchEntry(req Request) (*Result, error) {
	path, ok := EntryFile(req.ProjectDir, req.Language)
	if !ok {
		return &Result{Skipped: true}, nil
	}
	result := &Result{EntryFile: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("reading entry file: %w", err)
	}
	original := string(data)

	content, added := prependMissing(original, importLines(req, original))
	result.AddedLines = added

	if req.piniaRewrite() {
		content, result.Rewritten = RewritePinia(content)
	}

	if content == original {
		return result, nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return result, fmt.Errorf("writing entry file: %w", err)
	}
	return result, nil
}

// importLines lists the lines the requested features need, in a fixed order.
func importLines(req Request, content string) []string {
	var lines []string
	if req.Features[FeatureSass] {
		lines = append(lines, sassImport)
	}
	if req.Features[FeatureVfonts] {
		lines = append(lines, vfontsImports...)
	}
	if req.piniaRewrite() && !strings.Contains(content, persistedModule) {
		lines = append(lines, persistedImport)
	}
	return lines
}

// prependMissing puts every line not already contained in content on top of
// it, preserving the given order. It returns the lines actually added.
func prependMissing(content string, lines []string) (string, []string) {
	var header strings.Builder
	var added []string
	for _, l := range lines {
		if strings.Contains(content, l) {
			continue
		}
		header.WriteString(l)
		header.WriteByte('\n')
		added = append(added, l)
	}
	if len(added) == 0 {
		return content, nil
	}
	return header.String() + content, added
}

// RewritePinia registers the persistence plugin on the Pinia instance:
//
//  1. a file already calling .use(persisted) is left alone;
//  2. app.use(createPinia()) is expanded into a named instance with the
//     plugin registered before it is installed;
//  3. otherwise a "const <id> = createPinia()" line gets "<id>.use(persisted)"
//     appended after it;
//  4. anything else is left unchanged.
func RewritePinia(content string) (string, bool) {
	if persistedUse.MatchString(content) {
		return content, false
	}

	if m := knownPiniaCall.FindStringSubmatchIndex(content); m != nil {
		indent := content[m[2]:m[3]]
		replacement := indent + "const pinia = createPinia()\n" +
			indent + "pinia.use(persisted)\n" +
			indent + "app.use(pinia)"
		return content[:m[0]] + replacement + content[m[1]:], true
	}

	if m := piniaDecl.FindStringSubmatchIndex(content); m != nil {
		indent := content[m[2]:m[3]]
		name := content[m[4]:m[5]]
		end := m[1]
		return content[:end] + "\n" + indent + name + ".use(persisted)" + content[end:], true
	}

	return content, false
}

// WriteAssets creates the supplementary files the features need. Existing
// files are never overwritten.
func WriteAssets(req Request) (*Result, error) {
	result := &Result{}
	var errs []error

	if req.Features[FeatureSass] {
		target := filepath.Join(req.ProjectDir, "src", "styles", "main.scss")
		created, err := writeIfAbsent(target, "assets/main.scss")
		if err != nil {
			errs = append(errs, err)
		} else if created {
			result.Created = append(result.Created, target)
		}
	}

	if req.piniaRewrite() {
		ext := "ts"
		if req.Language == jobspec.LangJS {
			ext = "js"
		}
		target := filepath.Join(req.ProjectDir, "src", "stores", "counter."+ext)
		created, err := writeIfAbsent(target, "assets/counter."+ext)
		if err != nil {
			errs = append(errs, err)
		} else if created {
			result.Created = append(result.Created, target)
		}
	}

	return result, errors.Join(errs...)
}

func writeIfAbsent(target, asset string) (bool, error) {
	if _, err := os.Stat(target); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", target, err)
	}

	data, err := assetFS.ReadFile(asset)
	if err != nil {
		return false, fmt.Errorf("reading embedded %s: %w", asset, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return false, fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, fmt.Errorf("writing %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("closing %s: %w", target, err)
	}
	return true, nil
}
