// Package validation checks the patient contact form of the booking wizard.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// Messages shown next to invalid fields
const (
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Email is invalid"
	MsgPhoneRequired     = "Phone number is required"
	MsgPhoneInvalid      = "Please enter a valid 10-digit phone number"
)

var (
	looseEmailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	nonDigitPattern   = regexp.MustCompile(`\D`)

	requiredMessages = map[string]string{
		string(models.FieldFirstName): MsgFirstNameRequired,
		string(models.FieldLastName):  MsgLastNameRequired,
		string(models.FieldEmail):     MsgEmailRequired,
		string(models.FieldPhone):     MsgPhoneRequired,
	}
)

// Errors maps a JSON field name to its message. Empty means valid.
type Errors map[string]string

// ContactValidator validates models.ContactDetails. It is safe for concurrent use.
type ContactValidator struct {
	validate *validator.Validate
}

// NewContactValidator builds a validator with the contact form rules registered
func NewContactValidator() *ContactValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("notblank", notBlank)     //nolint:errcheck
	_ = v.RegisterValidation("looseemail", looseEmail) //nolint:errcheck
	_ = v.RegisterValidation("phone10", phone10)       //nolint:errcheck

	return &ContactValidator{validate: v}
}

// Validate returns the failing fields of details. The first failing rule of a
// field wins, so a blank email reports "required" rather than "invalid".
func (cv *ContactValidator) Validate(details models.ContactDetails) Errors {
	errs := Errors{}

	err := cv.validate.Struct(details)
	if err == nil {
		return errs
	}

	fieldErrors, ok := err.(validator.ValidationErrors) //nolint:errorlint // Struct returns the concrete type
	if !ok {
		return errs
	}

	for _, fe := range fieldErrors {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

// NormalizePhone strips everything but digits
func NormalizePhone(phone string) string {
	return nonDigitPattern.ReplaceAllString(phone, "")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
		return fe.Field() + " is required"
	case "looseemail":
		return MsgEmailInvalid
	case "phone10":
		return MsgPhoneInvalid
	default:
		return fe.Field() + " is invalid"
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func looseEmail(fl validator.FieldLevel) bool {
	return looseEmailPattern.MatchString(fl.Field().String())
}

func phone10(fl validator.FieldLevel) bool {
	return len(NormalizePhone(fl.Field().String())) == 10
}
