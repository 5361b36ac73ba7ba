// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match what the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateRequest runs struct tag validation and returns a client-safe message
func validateRequest(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.New("Invalid request")
	}

	e := verrs[0]
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, e.Param())
	case "email":
		return errors.New("Invalid email format")
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

// sanitize trims s, cuts it to maxLen characters and strips angle brackets
func sanitize(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxLen {
		s = string(r[:maxLen])
	}
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}
