package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Result contains the outcome of a schema validation.
type Result struct {
	Valid  bool
	Issues []Issue
}

// Issue represents a single validation error from the schema.
type Issue struct {
	Path    string // Instance location (e.g., "/components/0/key")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Summary joins all issues into one line.
func (r *Result) Summary() string {
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		parts = append(parts, issue.String())
	}
	return strings.Join(parts, "; ")
}

// Validator lazily compiles one embedded schema document.
type Validator struct {
	name string
	raw  []byte

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// New returns a Validator for the schema document raw, registered under name.
func New(name string, raw []byte) *Validator {
	return &Validator{name: name, raw: raw}
}

func (v *Validator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(v.raw))
		if err != nil {
			v.err = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(v.name, doc); err != nil {
			v.err = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		v.compiled, v.err = c.Compile(v.name)
		if v.err != nil {
			v.err = fmt.Errorf("compiling schema: %w", v.err)
		}
	})
	return v.compiled, v.err
}

// ValidateJSON validates raw JSON bytes. The error return is for malformed
// input or schema compilation failures; validation issues are in the Result.
func (v *Validator) ValidateJSON(data []byte) (*Result, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return v.validate(inst)
}

// ValidateYAML validates raw YAML bytes by converting them to JSON first.
func (v *Validator) ValidateYAML(data []byte) (*Result, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	return v.ValidateJSON(jsonData)
}

// ValidateValue validates an already-decoded JSON value (as produced by
// jsonschema.UnmarshalJSON or encoding/json with UseNumber).
func (v *Validator) ValidateValue(inst interface{}) (*Result, error) {
	return v.validate(inst)
}

func (v *Validator) validate(inst interface{}) (*Result, error) {
	s, err := v.schema()
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", v.name, err)
	}

	err = s.Validate(inst)
	if err == nil {
		return &Result{Valid: true}, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &Result{Valid: false, Issues: extractIssues(validationErr)}, nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)

	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return deduplicate(issues)
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) == 0 {
		path := ""
		if len(ve.InstanceLocation) > 0 {
			path = "/" + strings.Join(ve.InstanceLocation, "/")
		}

		keyword, msg := "", ""
		if ve.ErrorKind != nil {
			if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords only restate their children.
		if keyword == "oneOf" || keyword == "anyOf" || keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, Issue{Path: path, Message: msg, Keyword: keyword})
		return
	}

	for _, cause := range ve.Causes {
		collectIssues(cause, issues)
	}
}

func deduplicate(issues []Issue) []Issue {
	seen := make(map[string]bool)
	var result []Issue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
