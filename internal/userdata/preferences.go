package userdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/vuecraft-labs/vuecraft/internal/platform"
)

// Preferences is the JSON document stored in config.json.
type Preferences struct {
	DefaultDirectory string `json:"default_directory,omitempty"`
}

// LoadPreferences reads config.json. A missing file yields empty
// preferences.
func LoadPreferences(p Paths) (*Preferences, error) {
	data, err := os.ReadFile(p.PreferencesPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Preferences{}, nil
		}
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("parsing preferences %s: %w", p.PreferencesPath(), err)
	}
	return &prefs, nil
}

// DefaultDirectory returns the persisted default target directory, or ""
// when none has been saved.
func DefaultDirectory(p Paths) (string, error) {
	prefs, err := LoadPreferences(p)
	if err != nil {
		return "", err
	}
	return prefs.DefaultDirectory, nil
}

// SaveDefaultDirectory replaces config.json with a document naming dir.
func SaveDefaultDirectory(p Paths, dir string) error {
	data, err := json.Marshal(Preferences{DefaultDirectory: dir})
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := platform.WriteFileAtomic(p.PreferencesPath(), data, FilePermNormal); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}
