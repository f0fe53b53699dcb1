package userdata

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// EnvEntry represents a single key-value pair from scaffold.env.
type EnvEntry struct {
	Key   string
	Value string
}

// LoadEnv reads scaffold.env, the extra environment applied to every child
// process. A missing file yields an empty map.
func LoadEnv(p Paths) (map[string]string, error) {
	env, err := godotenv.Read(p.EnvFilePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", p.EnvFilePath(), err)
	}
	return env, nil
}

// EnvEntries returns the entries of env sorted by key.
func EnvEntries(env map[string]string) []EnvEntry {
	entries := make([]EnvEntry, 0, len(env))
	for k, v := range env {
		entries = append(entries, EnvEntry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// sensitivePatterns are substrings that indicate a value should be redacted.
var sensitivePatterns = []string{"TOKEN", "SECRET", "PASSWORD", "KEY", "CREDENTIAL", "AUTH"}

// RedactValue returns a redacted version of value if the key name contains
// a sensitive pattern (case-insensitive substring match).
// Values with 4+ chars show the first 4 chars + "***".
// Values with fewer than 4 chars are fully redacted as "***".
func RedactValue(key, value string) string {
	upper := strings.ToUpper(key)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(upper, pattern) {
			if len(value) >= 4 {
				return value[:4] + "***"
			}
			return "***"
		}
	}
	return value
}
