package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode unmarshals the request body into dst and validates it. Both
// failures wrap ErrInvalidData.
func (c *call) decode(dst any) error {
	body := bytes.TrimSpace(c.body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return fmt.Errorf("%w: request body is required", types.ErrInvalidData)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		if errors.Is(err, types.ErrInvalidData) {
			return err
		}
		return fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	if err := c.v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, e := range verrs {
				msgs[i] = formatValidationError(e)
			}
			return fmt.Errorf("%w: %s", types.ErrInvalidData, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	return nil
}

// formatValidationError creates a human-readable validation error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
