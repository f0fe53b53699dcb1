package userdata

import (
	"os"
	"path/filepath"
)

// File name constants under the configuration root.
const (
	RegistryFile    = "components.json"
	PreferencesFile = "config.json"
	SettingsFile    = "config.yaml"
	EnvFile         = "scaffold.env"
)

// Permission constants.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
	FilePermSecure os.FileMode = 0600
)

// Paths resolves file locations under one configuration root.
type Paths struct {
	Root string
}

// NewPaths returns Paths for root.
func NewPaths(root string) Paths { return Paths{Root: root} }

// RegistryPath returns <root>/components.json.
func (p Paths) RegistryPath() string { return filepath.Join(p.Root, RegistryFile) }

// PreferencesPath returns <root>/config.json.
func (p Paths) PreferencesPath() string { return filepath.Join(p.Root, PreferencesFile) }

// SettingsPath returns <root>/config.yaml.
func (p Paths) SettingsPath() string { return filepath.Join(p.Root, SettingsFile) }

// EnvFilePath returns <root>/scaffold.env.
func (p Paths) EnvFilePath() string { return filepath.Join(p.Root, EnvFile) }

// SystemPaths returns the well-known user folders that exist under the home
// directory, keyed by lower-case name (desktop, documents, downloads,
// pictures). Used to suggest a target directory.
func SystemPaths() map[string]string {
	home, err := os.UserHomeDir()
	if err != nil {
		return map[string]string{}
	}
	return systemPathsUnder(home)
}

func systemPathsUnder(home string) map[string]string {
	found := map[string]string{}
	for key, name := range map[string]string{
		"desktop":   "Desktop",
		"documents": "Documents",
		"downloads": "Downloads",
		"pictures":  "Pictures",
	} {
		path := filepath.Join(home, name)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			found[key] = path
		}
	}
	return found
}
