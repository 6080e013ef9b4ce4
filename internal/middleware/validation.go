package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apierrors "moonlight/internal/errors"
)

// RequestValidator validates decoded query parameters using struct tags
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator creates a validator with the dashboard's custom tags
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	_ = v.RegisterValidation("metric", isMetricName)
	_ = v.RegisterValidation("country", isCountryName)

	// Use query/JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &RequestValidator{validator: v}
}

// ValidateStruct validates a struct and returns validation errors
func (m *RequestValidator) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.ErrValidation("request", err.Error())
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// QueryInt reads an integer query parameter, returning def when absent
func QueryInt(r *http.Request, param string, def int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("%s must be a valid integer", param))
	}
	return n, nil
}

// QueryList reads a comma separated or repeated query parameter
func QueryList(r *http.Request, param string) []string {
	var out []string
	for _, raw := range r.URL.Query()[param] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "metric":
		return fmt.Sprintf("%s must be a column name made of letters and digits", field)
	case "country":
		return fmt.Sprintf("%s must be a country name", field)
	case "dive":
		return fmt.Sprintf("%s contains an invalid entry", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isMetricName accepts measurement column names such as GHI or TModA
func isMetricName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || len(name) > 32 {
		return false
	}
	for _, ch := range name {
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			return false
		}
	}
	return true
}

// isCountryName accepts display names like "Sierra Leone" or "Côte d'Ivoire"
func isCountryName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.TrimSpace(name) == "" || len(name) > 64 {
		return false
	}
	for _, ch := range name {
		if !unicode.IsLetter(ch) && ch != ' ' && ch != '-' && ch != '\'' && ch != '.' {
			return false
		}
	}
	return true
}
