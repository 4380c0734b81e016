package parser

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var fightTableSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(fightTableSchema)

// ErrSchema indicates a document that does not describe a fight table.
var ErrSchema = errors.New("fight table does not match schema")

// Violation is one schema violation.
type Violation struct {
	Field       string
	Description string
	Value       any
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Description))
	}
	return fmt.Sprintf("%s: %s", ErrSchema, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrSchema
}

// Validate checks a raw document against the fight table schema. A nil error means
// the document is valid; a *ValidationError lists the violations.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate fight table: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		violations = append(violations, Violation{
			Field:       re.Field(),
			Description: re.Description(),
			Value:       re.Value(),
		})
	}
	return &ValidationError{Violations: violations}
}
