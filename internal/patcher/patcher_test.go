package patcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
)

const createVueMain = `import { createApp } from 'vue'
import { createPinia } from 'pinia'

import App from './App.vue'
import router from './router'

const app = createApp(App)

app.use(createPinia())
app.use(router)

app.mount('#app')
`

func writeEntry(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, "src", name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func features(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func TestEntryFile(t *testing.T) {
	tests := []struct {
		name    string
		present []string
		lang    jobspec.Language
		want    string
	}{
		{"ts prefers main.ts", []string{"main.ts", "main.js"}, jobspec.LangTS, "main.ts"},
		{"js prefers main.js", []string{"main.ts", "main.js"}, jobspec.LangJS, "main.js"},
		{"ts falls back to main.js", []string{"main.js"}, jobspec.LangTS, "main.js"},
		{"js falls back to main.ts", []string{"main.ts"}, jobspec.LangJS, "main.ts"},
		{"none", nil, jobspec.LangTS, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, p := range tt.present {
				writeEntry(t, dir, p, "")
			}
			got, ok := EntryFile(dir, tt.lang)
			if tt.want == "" {
				if ok {
					t.Fatalf("EntryFile() = %q, want none", got)
				}
				return
			}
			if !ok || filepath.Base(got) != tt.want {
				t.Errorf("EntryFile() = %q, want %s", got, tt.want)
			}
		})
	}
}

func TestPatchEntry_NoEntryFile(t *testing.T) {
	res, err := PatchEntry(Request{ProjectDir: t.TempDir(), Template: jobspec.TemplateV3, Language: jobspec.LangTS, Features: features(FeatureSass)})
	if err != nil {
		t.Fatalf("PatchEntry() error: %v", err)
	}
	if !res.Skipped {
		t.Error("expected Skipped when no entry file exists")
	}
}

func TestPatchEntry_SassV3TS(t *testing.T) {
	dir := t.TempDir()
	path := writeEntry(t, dir, "main.ts", createVueMain)
	req := Request{ProjectDir: dir, Template: jobspec.TemplateV3, Language: jobspec.LangTS, Features: features(FeatureSass)}

	res, err := PatchEntry(req)
	if err != nil {
		t.Fatalf("PatchEntry() error: %v", err)
	}
	if len(res.AddedLines) != 1 || res.AddedLines[0] != sassImport {
		t.Errorf("AddedLines = %v", res.AddedLines)
	}
	got := readFile(t, path)
	if !strings.HasPrefix(got, sassImport+"\n") {
		t.Errorf("sass import not prepended:\n%s", got)
	}
	if strings.Count(got, sassImport) != 1 {
		t.Errorf("sass import should appear once:\n%s", got)
	}
	if strings.Contains(got, "persisted") {
		t.Errorf("pinia rewrite should not run without the pinia feature:\n%s", got)
	}

	assets, err := WriteAssets(req)
	if err != nil {
		t.Fatalf("WriteAssets() error: %v", err)
	}
	if len(assets.Created) != 1 {
		t.Errorf("Created = %v", assets.Created)
	}
	if _, err := os.Stat(filepath.Join(dir, "src", "styles", "main.scss")); err != nil {
		t.Errorf("main.scss missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "src", "stores")); !os.IsNotExist(err) {
		t.Errorf("stores directory should not exist, stat err = %v", err)
	}
}

func TestPatchEntry_Vfonts(t *testing.T) {
	dir := t.TempDir()
	path := writeEntry(t, dir, "main.js", "import 'vfonts/Lato.css'\ncreateApp(App).mount('#app')\n")
	res, err := PatchEntry(Request{ProjectDir: dir, Template: jobspec.TemplateV2, Language: jobspec.LangJS, Features: features(FeatureVfonts)})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.AddedLines) != 1 || res.AddedLines[0] != "import 'vfonts/FiraCode.css'" {
		t.Errorf("AddedLines = %v, want only the missing FiraCode import", res.AddedLines)
	}
	if strings.Count(readFile(t, path), "vfonts/Lato.css") != 1 {
		t.Error("existing import duplicated")
	}
}

func TestPatchEntry_PiniaIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeEntry(t, dir, "main.ts", createVueMain)
	req := Request{ProjectDir: dir, Template: jobspec.TemplateV3, Language: jobspec.LangTS, Features: features(FeatureSass, FeatureVfonts, FeaturePinia)}

	first, err := PatchEntry(req)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Rewritten {
		t.Error("first run should rewrite the pinia setup")
	}
	once := readFile(t, path)

	second, err := PatchEntry(req)
	if err != nil {
		t.Fatal(err)
	}
	if second.Changed() {
		t.Errorf("second run changed the file: %+v", second)
	}
	twice := readFile(t, path)
	if once != twice {
		t.Errorf("patching twice differs from once:\n--- once\n%s\n--- twice\n%s", once, twice)
	}

	for _, want := range []string{
		persistedImport,
		"const pinia = createPinia()\npinia.use(persisted)\napp.use(pinia)",
	} {
		if strings.Count(twice, want) != 1 {
			t.Errorf("expected exactly one %q in:\n%s", want, twice)
		}
	}
	if strings.Contains(twice, "app.use(createPinia())") {
		t.Error("known shape left in place")
	}
}

func TestPatchEntry_PiniaOnlyUnderV3(t *testing.T) {
	dir := t.TempDir()
	path := writeEntry(t, dir, "main.js", "Vue.use(createPinia())\n")
	res, err := PatchEntry(Request{ProjectDir: dir, Template: jobspec.TemplateV2, Language: jobspec.LangJS, Features: features(FeaturePinia)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed() {
		t.Errorf("v2 pinia should not be patched: %+v", res)
	}
	if got := readFile(t, path); got != "Vue.use(createPinia())\n" {
		t.Errorf("file changed: %q", got)
	}
}

func TestRewritePinia(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		rewritten bool
	}{
		{
			name:      "known shape",
			in:        "app.use(createPinia())\n",
			want:      "const pinia = createPinia()\npinia.use(persisted)\napp.use(pinia)\n",
			rewritten: true,
		},
		{
			name:      "known shape with whitespace and indent",
			in:        "  app.use( createPinia( ) );\n",
			want:      "  const pinia = createPinia()\n  pinia.use(persisted)\n  app.use(pinia);\n",
			rewritten: true,
		},
		{
			name:      "looser declaration",
			in:        "const store = createPinia()\napp.use(store)\n",
			want:      "const store = createPinia()\nstore.use(persisted)\napp.use(store)\n",
			rewritten: true,
		},
		{
			name:      "looser let declaration with semicolon",
			in:        "let p = createPinia();\n",
			want:      "let p = createPinia();\np.use(persisted)\n",
			rewritten: true,
		},
		{
			name: "already registered",
			in:   "const pinia = createPinia()\npinia.use(persisted)\napp.use(pinia)\n",
			want: "const pinia = createPinia()\npinia.use(persisted)\napp.use(pinia)\n",
		},
		{
			name: "receiver with app suffix",
			in:   "const myapp = createApp(App)\nmyapp.use(createPinia())\nmyapp.mount('#app')\n",
			want: "const myapp = createApp(App)\nmyapp.use(createPinia())\nmyapp.mount('#app')\n",
		},
		{
			name: "member receiver",
			in:   "window.app.use(createPinia())\n",
			want: "window.app.use(createPinia())\n",
		},
		{
			name:      "known shape after other lines",
			in:        "const app = createApp(App)\n\napp.use(createPinia())\napp.mount('#app')\n",
			want:      "const app = createApp(App)\n\nconst pinia = createPinia()\npinia.use(persisted)\napp.use(pinia)\napp.mount('#app')\n",
			rewritten: true,
		},
		{
			name: "unrecognized shape",
			in:   "app.use(makeStore(createPinia))\n",
			want: "app.use(makeStore(createPinia))\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rewritten := RewritePinia(tt.in)
			if got != tt.want || rewritten != tt.rewritten {
				t.Errorf("RewritePinia() = %q, %v; want %q, %v", got, rewritten, tt.want, tt.rewritten)
			}
			again, _ := RewritePinia(got)
			if again != got {
				t.Errorf("second rewrite changed content: %q", again)
			}
		})
	}
}

func TestWriteAssets_PiniaStore(t *testing.T) {
	for _, lang := range []jobspec.Language{jobspec.LangTS, jobspec.LangJS} {
		t.Run(string(lang), func(t *testing.T) {
			dir := t.TempDir()
			req := Request{ProjectDir: dir, Template: jobspec.TemplateV3, Language: lang, Features: features(FeaturePinia)}
			res, err := WriteAssets(req)
			if err != nil {
				t.Fatal(err)
			}
			path := filepath.Join(dir, "src", "stores", "counter."+string(lang))
			if len(res.Created) != 1 || res.Created[0] != path {
				t.Fatalf("Created = %v, want [%s]", res.Created, path)
			}
			body := readFile(t, path)
			if !strings.Contains(body, "persist: true") || !strings.Contains(body, "defineStore('counter'") {
				t.Errorf("unexpected store body:\n%s", body)
			}
			if hasInterface := strings.Contains(body, "interface CounterState"); hasInterface != (lang == jobspec.LangTS) {
				t.Errorf("interface present = %v for %s", hasInterface, lang)
			}
		})
	}
}

func TestWriteAssets_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "src", "styles", "main.scss")
	if err := os.MkdirAll(filepath.Dir(existing), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("// mine\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res, err := WriteAssets(Request{ProjectDir: dir, Template: jobspec.TemplateV3, Language: jobspec.LangTS, Features: features(FeatureSass)})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Created) != 0 {
		t.Errorf("Created = %v, want none", res.Created)
	}
	if got := readFile(t, existing); got != "// mine\n" {
		t.Errorf("existing asset overwritten: %q", got)
	}
}
