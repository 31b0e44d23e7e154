package utils

import (
	"PatientCare/apperrors"
	"errors"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PhonePattern is shared by every phone field.
var PhonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

const PhoneMessage = "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."

var (
	ErrPasswordTooShort = errors.New("This password is too short. It must contain at least 8 characters.")
	ErrPasswordNumeric  = errors.New("This password is entirely numeric.")
	ErrPasswordMismatch = errors.New("Passwords don't match")
	ErrInvalidResetCode = errors.New("Invalid or expired reset code")
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// PhoneRule validates a phone number. Empty values pass; combine with
// validation.Required where the phone is mandatory.
func PhoneRule() validation.Rule {
	return validation.Match(PhonePattern).Error(PhoneMessage)
}

// PasswordRules returns the rules every new password must satisfy.
func PasswordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.RuneLength(8, 128).Error(ErrPasswordTooShort.Error()),
		validation.By(func(value interface{}) error {
			password, _ := value.(string)
			if digitsOnly.MatchString(password) {
				return ErrPasswordNumeric
			}
			return nil
		}),
	}
}

// MatchesPassword fails when confirm differs from password.
func MatchesPassword(password string) validation.Rule {
	return validation.By(func(value interface{}) error {
		confirm, _ := value.(string)
		if confirm != password {
			return ErrPasswordMismatch
		}
		return nil
	})
}

// ValidationError converts an ozzo-validation result into an application
// validation error keyed by JSON field name. Internal rule errors are
// returned unchanged.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return apperrors.Field(apperrors.NonFieldErrors, err.Error())
	}

	fields := make(map[string]string, len(errs))
	flatten("", errs, fields)
	return apperrors.Validation("Validation failed", fields)
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		var nested validation.Errors
		if errors.As(errs[k], &nested) {
			flatten(name, nested, out)
			continue
		}
		out[name] = strings.TrimSpace(errs[k].Error())
	}
}
