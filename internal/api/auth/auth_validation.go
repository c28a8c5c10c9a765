package auth

import (
	"errors"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Validate checks the registration input before the store is touched.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 20)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(6, 0),
			validation.By(requireMixedPassword),
		),
	)
}

// Validate checks the login input. An address form is validated as an
// email, anything else as a username.
func (r LoginRequest) Validate() error {
	identifierRules := []validation.Rule{validation.Required}
	if strings.Contains(r.UsernameOrEmail, "@") {
		identifierRules = append(identifierRules, is.Email)
	} else {
		identifierRules = append(identifierRules, validation.Length(3, 0))
	}

	return validation.ValidateStruct(&r,
		validation.Field(&r.UsernameOrEmail, identifierRules...),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
	)
}

func requireMixedPassword(value interface{}) error {
	password, _ := value.(string)
	var upper, lower, digit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return errors.New("must contain at least one uppercase letter, one lowercase letter, and one number")
	}
	return nil
}
