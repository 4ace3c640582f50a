// Package validator turns ozzo-validation failures into API errors.
package validator

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/errcode"
)

// ModuleCode is shared with the other api-level errors.
const ModuleCode = 10

const ErrCodeValidation = 22

// ErrValidation carries the per-field messages under data["fields"].
var ErrValidation = errcode.Register(errcode.New(ModuleCode, ErrCodeValidation,
	"api", "error.api.validation_failed", "Validation failed", http.StatusUnprocessableEntity))

// Validatable is implemented by request types.
type Validatable interface {
	Validate() error
}

// ValidateRequest runs req.Validate and converts ozzo errors into ErrValidation.
// Other errors are returned as is.
func ValidateRequest(req Validatable) error {
	err := req.Validate()
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return ConvertValidationError(errs)
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	var single validation.Error
	if errors.As(err, &single) {
		return ErrValidation.WithMsg(single.Error())
	}
	return err
}

// ConvertValidationError flattens nested errors into dotted field paths such as
// "items.0.name".
func ConvertValidationError(errs validation.Errors) error {
	fields := make(map[string]string)
	flatten("", errs, fields)
	return ErrValidation.WithData("fields", fields)
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	for field, err := range errs {
		if err == nil {
			continue
		}
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(key, nested, out)
			continue
		}
		out[key] = err.Error()
	}
}

// Fields returns the field messages attached to a validation error.
func Fields(err error) map[string]string {
	layered, ok := errcode.As(err)
	if !ok {
		return nil
	}
	fields, _ := layered.Data()["fields"].(map[string]string)
	return fields
}
