package contact

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Form is the contact form as submitted by the browser or API.
type Form struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" form:"subject" validate:"required,max=200"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

// Error implements the error interface.
func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// checker validates and sanitizes forms.
type checker struct {
	validate *validator.Validate
	strip    *bluemonday.Policy
}

func newChecker() *checker {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &checker{validate: v, strip: bluemonday.StrictPolicy()}
}

// clean trims every field and strips markup from the free-text ones.
func (c *checker) clean(f Form) Form {
	return Form{
		Name:    c.plain(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: c.plain(f.Subject),
		Message: c.plain(f.Message),
	}
}

func (c *checker) plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.strip.Sanitize(s)))
}

// check returns FieldErrors when the cleaned form is not acceptable.
func (c *checker) check(f Form) error {
	err := c.validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate contact form: %w", err)
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "email":
			out[field] = fmt.Sprintf("%s must be a valid email address", field)
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}
