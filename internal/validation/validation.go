// Package validation applies struct-tag rules to decoded request bodies.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/banddevs/backend/internal/model"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidJSON is returned by Decode when the body is not a JSON object
// matching the destination type.
var ErrInvalidJSON = errors.New("invalid json")

// maxBodyBytes caps request bodies; a contact message is a few KB at most.
const maxBodyBytes = 64 << 10

// messages maps "<json field>.<tag>" (or just "<tag>") to the user-facing
// message for a failed rule.
var messages = map[string]string{
	"name.required":    "Name is required",
	"email.required":   "Valid email is required",
	"email.email":      "Valid email is required",
	"message.required": "Message must be at least 10 characters long",
	"message.min":      "Message must be at least 10 characters long",
	"service":          "Service must be one of the offered services",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("service", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || model.IsKnownService(s)
	})
	return v
}

// Decode reads a single JSON object from r into dst. Anything after the
// object other than whitespace is rejected.
func Decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after object", ErrInvalidJSON)
	}
	return nil
}

// Struct validates v and returns one FieldError per failed rule, or nil.
func Struct(v any) []model.FieldError {
	return collect(v, nil)
}

// Required runs only the rules a browser enforces natively on a form
// (required inputs and type=email), leaving length and choice rules to the server.
func Required(v any) []model.FieldError {
	return collect(v, func(tag string) bool { return tag == "required" || tag == "email" })
}

func collect(v any, keep func(tag string) bool) []model.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []model.FieldError{{Message: err.Error()}}
	}
	var out []model.FieldError
	for _, fe := range verrs {
		if keep != nil && !keep(fe.Tag()) {
			continue
		}
		out = append(out, model.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := messages[fe.Tag()]; ok {
		return m
	}
	return fmt.Sprintf("%s failed %q rule", fe.Field(), fe.Tag())
}
