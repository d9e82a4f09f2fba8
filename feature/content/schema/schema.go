package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"content-forge/feature/content/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Violation describes one structural mismatch against the declared schema.
type Violation struct {
	// Path is the instance location of the offending value ("" is the root).
	Path string `json:"path"`
	// Keyword is the schema location of the failed constraint.
	Keyword string `json:"keyword"`
	// Message is the human-readable failure description.
	Message string `json:"message"`
}

// ValidationError carries the full, ordered violation list. It is always
// surfaced verbatim to the caller; synthesis and merge refuse to run on a
// record that produced one.
type ValidationError struct {
	Violations []Violation
}

// Error summarizes the violation list.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "schema validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		path := v.Path
		if path == "" {
			path = "/"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", path, v.Message))
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

// Validator validates canonical records against the versioned schema set.
type Validator struct {
	compiled map[string]*jsonschema.Schema
}

// NewValidator compiles the embedded schemas for every supported
// (version, type) pair.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	v := &Validator{compiled: make(map[string]*jsonschema.Schema)}
	for _, recordType := range []models.RecordType{models.RecordAction, models.RecordItem, models.RecordActor} {
		name := fmt.Sprintf("%s.v%d", recordType, models.SchemaVersion)
		raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("embedded schema %s missing: %w", name, err)
		}
		url := fmt.Sprintf("https://content-forge.local/schemas/%s.json", name)
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("load schema %s: %w", name, err)
		}
		compiled, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.compiled[name] = compiled
	}
	return v, nil
}

// envelope is the minimal header peeked at before full validation.
type envelope struct {
	SchemaVersion int               `json:"schema_version"`
	Type          models.RecordType `json:"type"`
}

// Validate checks a raw canonical record against the schema for its
// declared schema_version and type. It returns nil on success or a
// *ValidationError carrying the full violation list.
func (v *Validator) Validate(raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &ValidationError{Violations: []Violation{{
			Path:    "",
			Keyword: "",
			Message: fmt.Sprintf("not a JSON object: %v", err),
		}}}
	}

	name := fmt.Sprintf("%s.v%d", env.Type, env.SchemaVersion)
	compiled, ok := v.compiled[name]
	if !ok {
		return &ValidationError{Violations: []Violation{{
			Path:    "",
			Keyword: "",
			Message: fmt.Sprintf("unsupported schema_version %d for type %q", env.SchemaVersion, env.Type),
		}}}
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return &ValidationError{Violations: []Violation{{
			Message: fmt.Sprintf("not valid JSON: %v", err),
		}}}
	}

	if err := compiled.Validate(instance); err != nil {
		verr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return &ValidationError{Violations: []Violation{{Message: err.Error()}}}
		}
		return &ValidationError{Violations: flatten(verr)}
	}
	return nil
}

// flatten collects leaf violations from the nested cause tree, sorted by
// instance path for deterministic output.
func flatten(err *jsonschema.ValidationError) []Violation {
	var out []Violation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Violation{
				Path:    e.InstanceLocation,
				Keyword: e.KeywordLocation,
				Message: e.Message,
			})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(err)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out
}
