package validator

import (
	"errors"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mealLog struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
}

func (m mealLog) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.Grams, validation.Min(0.0)),
	)
}

type mealBatch struct {
	Items []mealLog `json:"items"`
}

func (b mealBatch) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Items, validation.Required),
	)
}

type failing struct{ err error }

func (f failing) Validate() error { return f.err }

func TestValidateRequest_Valid(t *testing.T) {
	assert.NoError(t, ValidateRequest(mealLog{Name: "oats", Grams: 40}))
}

func TestValidateRequest_FieldErrors(t *testing.T) {
	err := ValidateRequest(mealLog{Grams: -1})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, http.StatusUnprocessableEntity, errcode.StatusOf(err))

	fields := Fields(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "grams")
}

func TestValidateRequest_NestedErrors(t *testing.T) {
	err := ValidateRequest(mealBatch{Items: []mealLog{{Name: "ok"}, {Grams: 1}}})
	require.Error(t, err)

	fields := Fields(err)
	assert.Contains(t, fields, "items.1.name")
	assert.NotContains(t, fields, "items.0.name")
}

func TestValidateRequest_PassesThroughOtherErrors(t *testing.T) {
	other := errors.New("boom")
	assert.Equal(t, other, ValidateRequest(failing{err: other}))
}

func TestValidateRequest_SingleRuleError(t *testing.T) {
	err := ValidateRequest(failing{err: validation.Validate("", validation.Required)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "cannot be blank", err.Error())
}

func TestFields_NotAValidationError(t *testing.T) {
	assert.Nil(t, Fields(errors.New("plain")))
}
