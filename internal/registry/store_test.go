package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vuecraft-labs/vuecraft/internal/failure"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "cfg", FileName), nil)
}

func TestLoad_SeedsDefaultsOnce(t *testing.T) {
	s := newTestStore(t)

	features, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(features) != 6 {
		t.Fatalf("seeded %d features, want 6", len(features))
	}
	if _, err := os.Stat(s.Path); err != nil {
		t.Fatalf("registry file not persisted: %v", err)
	}

	// A later save must not be undone by seeding again.
	if err := s.Save([]byte(`{"components":[{"key":"only","packages":["only-pkg"]}]}`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	features, err = s.Load()
	if err != nil {
		t.Fatalf("Load() after save error: %v", err)
	}
	if len(features) != 1 || features[0].Key != "only" {
		t.Errorf("Load() after save = %+v, want the saved document", features)
	}
}

func TestLoad_ReadsFreshEveryTime(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}

	// Another process replaces the file behind our back.
	if err := os.WriteFile(s.Path, []byte(`{"components":[{"key":"ext","package":"ext-pkg"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	features, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(features) != 1 || features[0].Key != "ext" {
		t.Errorf("Load() = %+v, want the externally written entry", features)
	}
}

func TestLoad_SkipsInvalidEntries(t *testing.T) {
	s := newTestStore(t)
	doc := `{"components":[
		{"key":"good","packages":["a"]},
		{"label":"missing key"},
		{"key":"bad-dev","dev":"yes"},
		{"key":"bad-packages","packages":"not-an-array"},
		"not an object",
		{"key":"also-good","package":"b","supported":{"js":false}}
	]}`
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	features, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	var keys []string
	for _, f := range features {
		keys = append(keys, f.Key)
	}
	if strings.Join(keys, ",") != "good,also-good" {
		t.Errorf("loaded keys = %v, want [good also-good]", keys)
	}
}

func TestLoad_MalformedDocument(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		t.Fatal(err)
	}
	for _, doc := range []string{`{"components":`, `{"items":[]}`, `[]`} {
		if err := os.WriteFile(s.Path, []byte(doc), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Load(); err == nil {
			t.Errorf("Load() of %q should fail", doc)
		}
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	tests := []string{
		`not json`,
		`{"components": {}}`,
		`{"components": [{"packages": ["x"]}]}`,
	}
	for _, payload := range tests {
		err := s.Save([]byte(payload))
		if err == nil {
			t.Errorf("Save(%q) should fail", payload)
			continue
		}
		if failure.KindOf(err) != failure.IOFailure {
			t.Errorf("Save(%q) kind = %q", payload, failure.KindOf(err))
		}
	}
	if _, err := os.Stat(s.Path); !os.IsNotExist(err) {
		t.Error("rejected payload must not create the registry file")
	}
}

func TestSaveFeatures_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := Defaults()[:2]
	if err := s.SaveFeatures(in); err != nil {
		t.Fatalf("SaveFeatures() error: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[1].Key != "pinia" || len(out[1].Packages) != 2 {
		t.Errorf("Load() = %+v", out)
	}
}

func TestRaw_SeedsAndReturnsDocument(t *testing.T) {
	s := newTestStore(t)
	raw, err := s.Raw()
	if err != nil {
		t.Fatalf("Raw() error: %v", err)
	}
	if !strings.Contains(string(raw), `"naive-ui"`) {
		t.Errorf("Raw() should contain the seeded defaults, got %s", raw)
	}
}
