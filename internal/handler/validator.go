package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestValidator plugs go-playground/validator into echo.Context.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator registers the custom tags used by request bodies.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("username", validateUsername); err != nil {
		panic(fmt.Sprintf("register 'username' validator: %v", err))
	}
	return &RequestValidator{validate: v}
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// bindAndValidate binds the body into req and runs the validator.  On
// failure it writes the 400 response itself and returns ok=false.
func bindAndValidate(c echo.Context, req interface{}) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "Validation failed"})
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Validation failed",
			"details": translate(verrs),
		})
	}
	return true, nil
}

func translate(errs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, fe := range errs {
		msg := fe.Error()
		if strings.HasPrefix(fe.Field(), "seatIds[") {
			out = append(out, ValidationError{Field: fe.Field(), Message: "Invalid seat IDs provided"})
			continue
		}
		switch fe.Field() + "." + fe.Tag() {
		case "seatIds.required", "seatIds.min", "seatIds.max":
			msg = "Must select between 1 and 7 seats"
		case "username.min", "username.max", "username.required":
			msg = "Username must be between 3 and 50 characters"
		case "username.username":
			msg = "Username can only contain letters, numbers, and underscores"
		case "email.required", "email.email":
			msg = "Please provide a valid email address"
		case "password.required":
			msg = "Password is required"
		case "password.min":
			msg = "Password must be at least 6 characters long"
		}
		out = append(out, ValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}
