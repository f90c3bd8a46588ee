package service

import (
	"errors"
	"sort"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

// stringEquals fails unless the value equals want.
func stringEquals(want, message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != want {
			return errors.New(message)
		}
		return nil
	}
}

// validationFailure turns ozzo field errors into a VALIDATION_FAILED error whose
// details map field name to message. The first message in field order becomes
// the error message.
func validationFailure(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make(map[string]any, len(fields))
	for _, name := range names {
		details[name] = fields[name].Error()
	}
	return apperrors.NewValidationError(firstMessage(fields, names), details)
}

func firstMessage(fields validation.Errors, names []string) string {
	if len(names) == 0 {
		return "invalid input"
	}
	msg := fields[names[0]].Error()
	if msg == "" {
		return "invalid input"
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
