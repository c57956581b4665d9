package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kjstillabower/weather-predict-service/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes a single schema violation, suitable for the details
// list of a 422 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaError is returned when a feature vector fails schema validation.
// Carries one entry per violated field.
type SchemaError struct {
	Fields []FieldError
}

func (e *SchemaError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("schema validation failed: %s %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("schema validation failed: %d fields", len(e.Fields))
}

// ValidateFeatures checks the six-field schema (presence of every required
// field). Type errors are caught earlier, at JSON decode time. Returns a
// *SchemaError on violation so handlers can reject before any model code runs.
func ValidateFeatures(vec models.FeatureVector) error {
	err := validate.Struct(vec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	se := &SchemaError{}
	for _, fe := range verrs {
		se.Fields = append(se.Fields, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return se
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required and must be an integer"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
