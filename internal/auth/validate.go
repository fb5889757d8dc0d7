package auth

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// loginInput is validated after email normalization: the address must parse,
// the password only has to be present.
type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// signupInput is validated after trimming the name and normalizing the
// email. The password carries the signup length policy.
type signupInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"min=6"`
}

// normalizeEmail lower-cases and trims an address so signup and login agree
// on identity regardless of how the user typed it.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkInput runs struct validation and converts failures into a
// ValidationError whose messages are aggregated in field order.
func checkInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe.Field(), fe.Tag()))
	}
	return &ValidationError{Messages: msgs}
}

func fieldMessage(field, tag string) string {
	switch field {
	case "Name":
		return "Name is required"
	case "Email":
		return "Invalid email format"
	case "Password":
		if tag == "min" {
			return "Password must be at least 6 characters long"
		}
		return "Password is required"
	}
	return field + " is invalid"
}
