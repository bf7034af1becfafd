// Package validation checks registration forms field by field before they are
// submitted or stored.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sdc-club/backend/internal/models"
)

// Branches lists the accepted values for the branch field.
var Branches = []string{
	"Computer Science",
	"Information Science",
	"Electronics and Communication",
	"Mechanical",
	"Civil",
}

const (
	MinSemester = 1
	MaxSemester = 8
)

var (
	emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// messages maps field -> failing tag -> message shown next to the field.
var messages = map[string]map[string]string{
	"fullName":    {"notblank": "Full name is required"},
	"email":       {"notblank": "Email is required", "sdcemail": "Invalid email address"},
	"studentId":   {"notblank": "Student ID is required"},
	"branch":      {"notblank": "Branch is required", "branch": "Invalid branch"},
	"semester":    {"notblank": "Semester is required", "semester": "Semester must be between 1 and 8"},
	"phoneNumber": {"notblank": "Phone number is required", "phone10": "Invalid phone number (10 digits required)"},
	"whyJoinSDC":  {"notblank": "Please tell us why you want to join SDC"},
}

// FormValidator validates registration forms. Safe for concurrent use.
type FormValidator struct {
	v *validator.Validate
}

// New builds a FormValidator with the registration rules registered.
func New() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	rules := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"sdcemail": func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		},
		"branch": func(fl validator.FieldLevel) bool {
			return IsBranch(fl.Field().String())
		},
		"semester": func(fl validator.FieldLevel) bool {
			_, ok := ParseSemester(fl.Field().String())
			return ok
		},
		"phone10": func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		// Registration only fails for empty tags or nil funcs.
		_ = v.RegisterValidation(tag, fn)
	}
	return &FormValidator{v: v}
}

// Validate returns a field name -> message map. An empty map means the form is valid.
func (fv *FormValidator) Validate(form models.RegistrationForm) map[string]string {
	errs := make(map[string]string)
	err := fv.v.Struct(form)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["form"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		errs[fe.Field()] = msg
	}
	return errs
}

var defaultValidator = New()

// Validate checks form with the shared validator.
func Validate(form models.RegistrationForm) map[string]string {
	return defaultValidator.Validate(form)
}

// ClearField drops the error for a field the user has just edited.
func ClearField(errs map[string]string, field string) {
	delete(errs, field)
}

// IsBranch reports whether b is one of the accepted branches.
func IsBranch(b string) bool {
	for _, known := range Branches {
		if b == known {
			return true
		}
	}
	return false
}

// ParseSemester parses s as an integer semester within [MinSemester, MaxSemester].
func ParseSemester(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < MinSemester || n > MaxSemester {
		return 0, false
	}
	return n, true
}
