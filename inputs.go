package session

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// LoginInput carries login credentials plus the optional one-time code used
// to complete a pending second factor.
type LoginInput struct {
	Email    string
	Password string
	OTP      string
}

// Validate checks the input before it is sent to the backend.
func (i LoginInput) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Password, validation.Required),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid login input").
			WithTextCode(textCodeInvalidInput).
			WithCode(errors.CodeBadRequest)
	}
	return nil
}

// SignupInput carries the account creation payload.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// Validate checks the input before it is sent to the backend.
func (i SignupInput) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&i.Role, validation.Required, validation.In(RoleCandidate, RoleRecruiter)),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid signup input").
			WithTextCode(textCodeInvalidInput).
			WithCode(errors.CodeBadRequest)
	}
	return nil
}
