package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// SchemaError reports why an inbound document failed validation. It is a
// structured result, not a panic: the boundary turns it into a 400 and stops.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid event: %s", e.Reason)
	}
	return fmt.Sprintf("invalid event: field %s %s", e.Field, e.Reason)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate parses and validates one raw update document. It accepts
// superset-compatible payloads (unknown fields are ignored) and rejects
// subset-incompatible ones: missing required fields, wrong primitive types,
// and enum values outside the allowed set.
func Validate(raw []byte) (*Update, *SchemaError) {
	var u Update
	if err := json.Unmarshal(raw, &u); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaError{Field: typeErr.Field, Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value)}
		}
		return nil, &SchemaError{Reason: err.Error()}
	}

	if err := validate.Struct(&u); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return nil, &SchemaError{Reason: err.Error()}
		}
		first := verrs[0]
		return nil, &SchemaError{Field: first.Namespace(), Reason: describeTag(first)}
	}

	return &u, nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
