package validation

import (
	stderrors "errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/authsvc/errors"
)

// TagEmailShape accepts anything shaped like local@domain.tld with no
// whitespace. It is looser than the RFC 5322 "email" tag.
const TagEmailShape = "email_shape"

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is one failed rule on one field, named by its json tag.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

var instance = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation(TagEmailShape, func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
})

// Validate checks s against its `validate` struct tags. Failures come back
// as an ErrCodeInvalidInput AppError with the field errors under "fields".
func Validate(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Validation("validation failed").WithCause(err)
	}

	fields := make([]FieldError, len(verrs))
	summary := make([]string, len(verrs))
	for i, e := range verrs {
		fields[i] = FieldError{Field: e.Field(), Tag: e.Tag(), Message: describe(e)}
		summary[i] = fields[i].Field + ": " + fields[i].Message
	}
	return errors.Validation(strings.Join(summary, "; ")).WithDetail("fields", fields)
}

// Fields returns the field errors carried by an error from Validate.
func Fields(err error) []FieldError {
	if appErr, ok := errors.AsAppError(err); ok {
		fields, _ := appErr.Details["fields"].([]FieldError)
		return fields
	}
	return nil
}

var tagText = map[string]string{
	"required":    "is required",
	"email":       "must be a valid email address",
	TagEmailShape: "must be a valid email address",
	"uuid":        "must be a valid UUID",
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	}
	if text, ok := tagText[e.Tag()]; ok {
		return text
	}
	return "is invalid"
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return toSnakeCase(f.Name)
	}
	return name
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
