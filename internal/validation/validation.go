// Package validation collects field-scoped validation failures. Struct-tag
// checks run through go-playground/validator; domain checks append their own
// messages to the same error set, so callers always see one Errors value
// covering everything that is wrong with the input.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Errors maps a field name to the messages recorded against it.
// A nil or empty Errors means the input passed.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether at least one failure was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// On returns the messages recorded against one field.
func (e Errors) On(field string) []string {
	return e[field]
}

// Error renders the set deterministically, fields in sorted order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed")
	for _, f := range fields {
		for _, msg := range e[f] {
			b.WriteString("; ")
			b.WriteString(f)
			b.WriteString(" ")
			b.WriteString(msg)
		}
	}
	return b.String()
}

// Struct runs the validator tags on v and returns the failures as an Errors
// set, or nil when everything passes.
func Struct(v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs := Errors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("base", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(snakeCase(fe.Field()), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid email address"
	case "url":
		return "is not a valid URL"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return fmt.Sprintf("failed the %q check", fe.Tag())
	}
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
