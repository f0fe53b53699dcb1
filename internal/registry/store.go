package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vuecraft-labs/vuecraft/internal/failure"
	"github.com/vuecraft-labs/vuecraft/internal/platform"
	"github.com/vuecraft-labs/vuecraft/internal/schema"
)

// FileName is the registry file name under the configuration root.
const FileName = "components.json"

var (
	//go:embed schema/registry.schema.json
	registrySchema []byte
	//go:embed schema/feature.schema.json
	featureSchema []byte

	documentValidator = schema.New("registry.schema.json", registrySchema)
	featureValidator  = schema.New("feature.schema.json", featureSchema)
)

// Store reads and writes one registry file. It holds no cached state.
type Store struct {
	Path   string
	Logger *slog.Logger
}

// NewStore returns a Store for path. A nil logger discards messages.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{Path: path, Logger: logger}
}

// Load reads the registry, seeding the default feature set on first use.
// Entries that fail validation are skipped with a warning.
func (s *Store) Load() ([]Feature, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return s.seed()
	}
	if err != nil {
		return nil, failure.Wrap(failure.IOFailure, s.Path, "reading feature registry "+s.Path, err)
	}
	return s.decode(data)
}

// Raw returns the registry document bytes, seeding defaults on first use.
func (s *Store) Raw() ([]byte, error) {
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, failure.Wrap(failure.IOFailure, s.Path, "reading feature registry "+s.Path, err)
	}
	return data, nil
}

// Save validates payload and replaces the registry file with it.
func (s *Store) Save(payload []byte) error {
	entries, err := parseDocument(payload)
	if err != nil {
		return err
	}
	for i, raw := range entries {
		result, err := featureValidator.ValidateJSON(raw)
		if err != nil {
			return failure.Wrap(failure.IOFailure, s.Path, fmt.Sprintf("validating component %d", i), err)
		}
		if !result.Valid {
			return failure.New(failure.IOFailure, s.Path,
				fmt.Sprintf("invalid component %d: %s", i, result.Summary()))
		}
	}
	if err := platform.WriteFileAtomic(s.Path, payload, 0644); err != nil {
		return failure.Wrap(failure.IOFailure, s.Path, "saving feature registry", err)
	}
	return nil
}

// SaveFeatures marshals features into a document and saves it.
func (s *Store) SaveFeatures(features []Feature) error {
	data, err := json.MarshalIndent(Document{Components: features}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling feature registry: %w", err)
	}
	return s.Save(data)
}

func (s *Store) seed() ([]Feature, error) {
	defaults := Defaults()
	data, err := json.MarshalIndent(Document{Components: defaults}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling default registry: %w", err)
	}
	if err := platform.WriteFileAtomic(s.Path, data, 0644); err != nil {
		return nil, failure.Wrap(failure.IOFailure, s.Path, "seeding feature registry", err)
	}
	s.Logger.Info("seeded default feature registry", "path", s.Path, "features", len(defaults))
	return defaults, nil
}

func (s *Store) decode(data []byte) ([]Feature, error) {
	entries, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("feature registry %s: %w", s.Path, err)
	}

	features := make([]Feature, 0, len(entries))
	for i, raw := range entries {
		result, err := featureValidator.ValidateJSON(raw)
		if err != nil || !result.Valid {
			reason := ""
			if err != nil {
				reason = err.Error()
			} else {
				reason = result.Summary()
			}
			s.Logger.Warn("skipping invalid registry entry", "path", s.Path, "index", i, "reason", reason)
			continue
		}
		var f Feature
		if err := json.Unmarshal(raw, &f); err != nil {
			s.Logger.Warn("skipping undecodable registry entry", "path", s.Path, "index", i, "error", err)
			continue
		}
		features = append(features, f)
	}
	return features, nil
}

// parseDocument checks the document shape and splits it into raw entries.
func parseDocument(data []byte) ([]json.RawMessage, error) {
	result, err := documentValidator.ValidateJSON(data)
	if err != nil {
		return nil, failure.Wrap(failure.IOFailure, "", "parsing feature registry", err)
	}
	if !result.Valid {
		return nil, failure.New(failure.IOFailure, "", "invalid feature registry: "+result.Summary())
	}

	var doc struct {
		Components []json.RawMessage `json:"components"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, failure.Wrap(failure.IOFailure, "", "decoding feature registry", err)
	}
	return doc.Components, nil
}
