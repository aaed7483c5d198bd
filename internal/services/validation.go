package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = time.DateOnly

const (
	msgRequired     = "This field is required."
	msgNotNull      = "This field may not be null."
	msgBlank        = "This field may not be blank."
	msgReadOnly     = "This field cannot be changed."
	msgInvalidEmail = "Enter a valid email address."
	msgInvalidDate  = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgUsername     = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgInvalid      = "Invalid value."
)

var usernameRegexp = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegexp.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

// check validates s and adds every failing field to verr. Fields that
// already have a problem in verr are left alone. Only a misuse of the
// validator is returned as an error.
func check(verr *ValidationError, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		if _, seen := verr.Fields[fe.Field()]; seen {
			continue
		}
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "email":
		return msgInvalidEmail
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	case "username":
		return msgUsername
	}
	return msgInvalid
}

// parseDate parses a YYYY-MM-DD value into midnight UTC.
func parseDate(value string) (*time.Time, bool) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// today is the current calendar date in loc, as midnight UTC.
func today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
