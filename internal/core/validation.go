package core

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// fieldLabels maps RecordInput fields to the labels shown on the form.
var fieldLabels = map[string]string{
	"Name":        ColumnName,
	"CurrentDate": ColumnCurrentDate,
	"SpecialDate": ColumnSpecialDate,
}

// ValidationError lists the required fields that were left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "required field empty: " + strings.Join(e.Fields, ", ")
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateInput trims in and checks that every required field has a value.
// The normalized input is returned for the caller to store.
func ValidateInput(in RecordInput) (RecordInput, error) {
	in = in.Normalize()

	err := recordValidator().Struct(in)
	if err == nil {
		return in, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return in, err
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.StructField()]
		if !ok {
			label = fe.StructField()
		}
		ve.Fields = append(ve.Fields, label)
	}
	return in, ve
}
