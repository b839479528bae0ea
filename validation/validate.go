package validation

import (
	stderrors "errors"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/storekit/errors"
)

// FieldError is one failed rule. Field is the dotted path of json names
// from the validated value, e.g. "retry.jitter".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return toSnakeCase(fld.Name)
		}
		return name
	})
	_ = v.RegisterValidation("httpmethod", func(fl validator.FieldLevel) bool {
		return IsHTTPMethod(fl.Field().String())
	})
	return v
})

// Validate checks s against its `validate` struct tags. Failures come back
// as a single INVALID_INPUT error whose details list every field under
// "fields".
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Validation("validation failed").WithCause(err)
	}

	fields := make([]FieldError, len(verrs))
	messages := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fieldPath(fe), Message: message(fe)}
		messages[i] = fields[i].Field + ": " + fields[i].Message
	}
	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{"fields": fields}
	return appErr
}

// fieldPath drops the root type name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

var messages = map[string]string{
	"required":   "is required",
	"url":        "must be a valid URL",
	"uuid":       "must be a valid UUID",
	"httpmethod": "must be an HTTP method",
	"oneof":      "must be one of: ",
	"min":        "must be at least ",
	"gte":        "must be at least ",
	"gt":         "must be greater than ",
	"max":        "must be at most ",
	"lte":        "must be at most ",
}

func message(fe validator.FieldError) string {
	m, ok := messages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.HasSuffix(m, " ") {
		m += fe.Param()
	}
	return m
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

var httpMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// IsHTTPMethod reports whether m is a method the fetch client can send.
func IsHTTPMethod(m string) bool {
	return slices.Contains(httpMethods, m)
}
