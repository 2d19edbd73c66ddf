// Package schemas provides JSON Schema validation for the structured
// payloads returned by the LLM.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed draft.schema.json
var draftSchema string

// ValidationError reports schema violations with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError is one violation at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("draft payload validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateDraftJSON validates the raw LLM response against the embedded
// draft schema. The synthesis stage rejects any payload that fails here
// before mapping it into a BlogDraft.
func ValidateDraftJSON(raw string) error {
	schemaLoader := gojsonschema.NewStringLoader(draftSchema)
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("draft payload is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return validationErr
}
