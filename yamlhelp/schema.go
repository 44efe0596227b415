package yamlhelp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// SchemaID is the $id of the sidecar schema.
const SchemaID = "https://jacobcolvin.com/platyps/command-help.schema.json"

// Schema returns the JSON Schema (draft 2020-12) of [Document].
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[Document](nil)
	if err != nil {
		return nil, fmt.Errorf("derive schema: %w", err)
	}

	s.Schema = "https://json-schema.org/draft/2020-12/schema"
	s.ID = SchemaID
	s.Title = "PowerShell command help"
	s.Description = "Structured help for one command, as written by platyps."

	if s.Properties == nil {
		s.Properties = map[string]*jsonschema.Schema{}
	}

	// Front matter is an ordered mapping of arbitrary keys.
	s.Properties["metadata"] = &jsonschema.Schema{
		Type:        "object",
		Description: "Front matter keys and values, in document order.",
	}

	constrainPositions(s)

	return s, nil
}

// constrainPositions restricts every "position" property to an integer
// string or "Named".
func constrainPositions(s *jsonschema.Schema) {
	if s == nil {
		return
	}

	for name, prop := range s.Properties {
		if name == "position" {
			s.Properties[name] = &jsonschema.Schema{
				Type:        "string",
				Pattern:     `^(\d+|Named)$`,
				Description: "Zero-based position, or Named.",
			}

			continue
		}

		constrainPositions(prop)
	}

	constrainPositions(s.Items)

	for _, def := range s.Defs {
		constrainPositions(def)
	}
}
