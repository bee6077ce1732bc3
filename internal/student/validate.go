package student

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	namePattern      = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern     = regexp.MustCompile(`^[0-9\s\-+()]+$`)
	studentIDPattern = regexp.MustCompile(`^[0-9]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "alphaspace", matches(namePattern))
	mustRegister(v, "emailshape", matches(emailPattern))
	mustRegister(v, "phonechars", matches(phonePattern))
	mustRegister(v, "digits", matches(studentIDPattern))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// FieldErrors maps a form field (JSON name) to a user-facing message.
type FieldErrors map[string]string

// ValidationError is returned by mutations whose form failed validation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks every field rule and returns nil when the form is acceptable.
func Validate(f Form) FieldErrors {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"form": err.Error()}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe.Field(), fe.Tag())
	}
	return out
}

func message(field, tag string) string {
	switch field {
	case "firstName", "lastName":
		if tag == "alphaspace" {
			return "Name should only contain alphabets and spaces"
		}
		return "This field is required"
	case "email":
		if tag == "emailshape" {
			return "Please enter a valid email address"
		}
		return "Email is required"
	case "phone":
		return "Phone number should only contain numbers, spaces, +, -, (, )"
	case "studentId":
		if tag == "digits" {
			return "Student ID should only contain numbers (0-9)"
		}
		return "Student ID is required"
	case "program":
		if tag == "oneof" {
			return "Program is not recognised"
		}
		return "Program is required"
	case "year":
		if tag == "oneof" {
			return "Academic year must be between 1 and 4"
		}
		return "Academic year is required"
	case "semester":
		if tag == "oneof" {
			return "Semester is not recognised"
		}
		return "Semester is required"
	case "feeAmount":
		return "Fee amount cannot be negative"
	case "currency":
		return "Currency must be one of USD, GBP, GHC"
	}
	return "Invalid value"
}
