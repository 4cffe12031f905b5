package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/csemotors/dealership/internal/core/domain"
)

var (
	vehicleImagePattern  = regexp.MustCompile(`^/images/vehicles/[a-zA-Z0-9_-]+\.(jpg|jpeg|png)$`)
	alphaSpacePattern    = regexp.MustCompile(`^[A-Za-z ]+$`)
	alphaNumSpacePattern = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)
)

// ValidationErrors maps a form field name to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, v[f])
	}
	return strings.Join(msgs, " ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form name so messages line up with the inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("vehicleimage", func(fl validator.FieldLevel) bool {
		return vehicleImagePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpacePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("alphanumspace", func(fl validator.FieldLevel) bool {
		return alphaNumSpacePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRole(fl.Field().String())
		return err == nil
	})

	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Field failures come back as
// ValidationErrors.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(ValidationErrors, len(ve))
			for _, fe := range ve {
				if _, seen := out[fe.Field()]; !seen {
					out[fe.Field()] = fieldError(fe)
				}
			}
			return out
		}
		return err
	}
	return nil
}

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

// strongPassword requires 12+ characters with an upper, a lower, a digit and a
// symbol, and at most maxPasswordBytes bytes.
func strongPassword(s string) bool {
	if len([]rune(s)) < 12 || len(s) > maxPasswordBytes {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

var fieldMessages = map[string]string{
	"account_firstname":   "Please provide a first name.",
	"account_lastname":    "Please provide a last name.",
	"account_email":       "A valid email is required.",
	"account_password":    "Password does not meet requirements.",
	"account_type":        "Please choose a valid account type.",
	"classification_name": "Please provide a valid classification name.",
	"classification_id":   "The selected classification name cannot be used or was not selected.",
	"inv_make":            "The vehicle make is not the appropriate value.",
	"inv_model":           "The vehicle model is not the appropriate value.",
	"inv_year":            "The vehicle year is not the appropriate value.",
	"inv_description":     "The vehicle description is not the appropriate value.",
	"inv_image":           "The vehicle image path is not the appropriate value.",
	"inv_thumbnail":       "The vehicle thumbnail is not the appropriate value.",
	"inv_price":           "The vehicle price is not the appropriate value.",
	"inv_miles":           "The vehicle miles is not the appropriate value.",
	"inv_color":           "The vehicle color is not the appropriate value.",
	"comment_text":        "Please write a comment of at most 1000 characters.",
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
