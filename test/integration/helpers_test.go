//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/vuecraft-labs/vuecraft/internal/config"
	"github.com/vuecraft-labs/vuecraft/internal/project"
)

// fakePnpm records every invocation (with the CI marker and the scaffold.env
// variable) and imitates the generator, install, add, and view commands.
const fakePnpm = `#!/bin/sh
echo "CI=$CI MARK=$VUECRAFT_TEST_MARK $*" >> "$FAKE_PNPM_LOG"
case "$1" in
  --version)
    echo 9.12.0
    ;;
  dlx)
    if [ "$2" = "@vue/cli@5" ]; then name="$4"; else name="$3"; fi
    mkdir -p "$name/src"
    printf "import { createApp } from 'vue'\nimport { createPinia } from 'pinia'\nimport App from './App.vue'\n\nconst app = createApp(App)\n\napp.use(createPinia())\napp.mount('#app')\n" > "$name/src/main.ts"
    echo "Scaffolding project in $name..."
    ;;
  add)
    if [ -n "$FAKE_PNPM_FAIL" ]; then
      for arg in "$@"; do
        if [ "$arg" = "$FAKE_PNPM_FAIL" ]; then
          echo "ERR_PNPM_FETCH_404 $arg" >&2
          exit 1
        fi
      done
    fi
    ;;
  view)
    echo '["1.0.0","1.2.0","2.0.0-rc.1"]'
    ;;
esac
exit 0
`

// testEnv holds paths to isolated test directories.
type testEnv struct {
	Root      string // VUECRAFT_HOME
	TargetDir string // parent directory of generated projects
	LogFile   string // fake pnpm invocation log
}

// setupTestEnv puts a fake pnpm first on PATH and sandboxes the
// configuration root. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake pnpm is a POSIX shell script")
	}

	binDir := t.TempDir()
	writeFile(t, filepath.Join(binDir, "pnpm"), fakePnpm)
	if err := os.Chmod(filepath.Join(binDir, "pnpm"), 0755); err != nil {
		t.Fatal(err)
	}

	env := &testEnv{
		Root:      t.TempDir(),
		TargetDir: t.TempDir(),
		LogFile:   filepath.Join(t.TempDir(), "pnpm.log"),
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("VUECRAFT_HOME", env.Root)
	t.Setenv("FAKE_PNPM_LOG", env.LogFile)
	t.Setenv("FAKE_PNPM_FAIL", "")
	return env
}

// newService builds a Service with the real process runner.
func newService(t *testing.T, env *testEnv) *project.Service {
	t.Helper()
	root, err := config.ResolveRoot("")
	if err != nil {
		t.Fatal(err)
	}
	if root != env.Root {
		t.Fatalf("ResolveRoot() = %s, want %s", root, env.Root)
	}
	cfg, err := config.Load(root)
	if err != nil {
		t.Fatal(err)
	}
	svc, err := project.New(cfg)
	if err != nil {
		t.Fatalf("project.New: %v", err)
	}
	return svc
}

// invocations returns the logged fake pnpm command lines.
func invocations(t *testing.T, env *testEnv) []string {
	t.Helper()
	data, err := os.ReadFile(env.LogFile)
	if err != nil {
		t.Fatalf("reading pnpm log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// containsLine reports whether any logged line contains substr.
func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
