// Package auth validates the login form. There is no backend
// authentication: a form that passes validation is accepted.
package auth

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Field names used as keys in FieldErrors.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Credentials is the login form payload.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// FieldErrors maps a form field to its first validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid credentials: " + strings.Join(parts, "; ")
}

// Validator checks Credentials against the form schema.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns nil when c is acceptable, FieldErrors when one or more
// fields are invalid, or another error if validation itself failed.
func (v *Validator) Validate(c Credentials) error {
	c.Email = strings.TrimSpace(c.Email)

	err := v.v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate credentials")
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, fe.Tag())
	}
	return out
}

func message(field, tag string) string {
	switch {
	case field == FieldEmail && tag == "required":
		return "Email is required"
	case field == FieldEmail:
		return "Email format is not valid"
	case field == FieldPassword && tag == "required":
		return "Password is required"
	case field == FieldPassword && tag == "min":
		return "password must be at least 8 characters"
	default:
		return field + " is invalid"
	}
}
