// Package gitinit turns a generated project into a git repository and makes
// sure its dependency directory is ignored.
package gitinit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnores are the paths every generated project must keep out of git.
var DefaultIgnores = []string{"node_modules"}

// Result reports what Init did.
type Result struct {
	Initialized bool // a new repository was created
	Existing    bool // dir already was a repository
	Appended    []string
}

// Init creates a repository in dir unless one exists, then ensures the
// DefaultIgnores entries are covered by .gitignore.
func Init(dir string) (*Result, error) {
	res := &Result{}
	if _, err := git.PlainInit(dir, false); err != nil {
		if !errors.Is(err, git.ErrRepositoryAlreadyExists) {
			return res, fmt.Errorf("initializing repository in %s: %w", dir, err)
		}
		res.Existing = true
	} else {
		res.Initialized = true
	}

	appended, err := EnsureIgnored(dir, DefaultIgnores...)
	res.Appended = appended
	return res, err
}

// EnsureIgnored appends each entry that the project's .gitignore does not
// already cover. It returns the entries it appended.
func EnsureIgnored(dir string, entries ...string) ([]string, error) {
	path := filepath.Join(dir, ".gitignore")
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .gitignore: %w", err)
	}

	matcher := gitignore.CompileIgnoreLines(strings.Split(string(content), "\n")...)
	var missing []string
	for _, e := range entries {
		if !Covers(matcher, e) {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	// Ensure there's a newline before our addition.
	suffix := strings.Join(missing, "\n") + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening .gitignore for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return nil, fmt.Errorf("writing to .gitignore: %w", err)
	}
	return missing, nil
}

// Covers reports whether matcher ignores the directory entry, i.e. both the
// entry itself and files beneath it.
func Covers(matcher *gitignore.GitIgnore, entry string) bool {
	return matcher.MatchesPath(entry + "/index.js")
}
