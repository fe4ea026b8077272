package api

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/ougirez/covidstat/internal/pkg/constants"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrBadRequest, err.Error())
	}
	return nil
}
