// Package validate checks user input before it reaches the shortening service.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MessageInvalidURL is shown next to the input field for an invalid URL.
const MessageInvalidURL = "please enter a valid URL, e.g. https://example.com"

// MessageRequired is shown next to the input field when nothing was entered.
const MessageRequired = "please enter a URL"

// Error is a field-local validation error.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

type urlInput struct {
	URL string `json:"url" validate:"required,url"`
}

// URLValidator validates candidate URLs.
type URLValidator struct {
	validate *validator.Validate
}

// New creates a URLValidator. Field names in errors come from json tags.
func New() *URLValidator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &URLValidator{validate: validate}
}

// URL reports whether raw is a non-empty absolute URL. Any scheme that parses
// is accepted.
func (v *URLValidator) URL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &Error{Field: "url", Message: MessageRequired}
	}

	if err := v.validate.Struct(urlInput{URL: raw}); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return &Error{Field: errs[0].Field(), Message: messageForTag(errs[0].Tag())}
		}
		return &Error{Field: "url", Message: MessageInvalidURL}
	}

	return nil
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return MessageRequired
	default:
		return MessageInvalidURL
	}
}
