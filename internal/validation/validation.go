package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"jamservices/internal/models"

	"github.com/go-playground/validator/v10"
)

// Field identifiers of the contact form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldAddress = "address"
)

// Messages shown next to an offending field.
const (
	MsgRequired     = "This field is required"
	MsgInvalidEmail = "Please enter a valid email address"
	MsgInvalidPhone = "Please enter a valid 10-digit phone number"
	MsgNameTooShort = "Name must be at least 2 characters long"
)

var ErrInvalidInput = errors.New("invalid input")

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// FieldErrors maps a field identifier to its message.
type FieldErrors map[string]string

// Fields returns the offending field ids in sorted order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Error carries every failing field of a batch validation.
type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalidInput }

type contactForm struct {
	Name    string `validate:"required,min=2"`
	Email   string `validate:"required,jam_email"`
	Phone   string `validate:"required,jam_phone"`
	Address string `validate:"required"`
}

var structFields = map[string]string{
	"Name":    FieldName,
	"Email":   FieldEmail,
	"Phone":   FieldPhone,
	"Address": FieldAddress,
}

var fieldTags = map[string]string{
	FieldName:    "required,min=2",
	FieldEmail:   "required,jam_email",
	FieldPhone:   "required,jam_phone",
	FieldAddress: "required",
}

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		mustRegister(v, "jam_email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		mustRegister(v, "jam_phone", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// mustRegister panics on a bad tag so the engine never runs with a rule missing.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// IsValidEmail checks the local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone strips non-digits and expects a 10 digit mobile number starting 6-9.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(DigitsOnly(phone))
}

// DigitsOnly drops every non-digit character.
func DigitsOnly(value string) string {
	return nonDigits.ReplaceAllString(value, "")
}

// NormalizeField maps form element ids onto field identifiers.
func NormalizeField(field string) string {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "name", "full-name", "fullname", "full_name":
		return FieldName
	case "email":
		return FieldEmail
	case "phone":
		return FieldPhone
	case "address":
		return FieldAddress
	}
	return ""
}

// ValidateField checks one field for on-blur feedback. Empty result means valid.
// Unknown fields only get the required check.
func ValidateField(field, value string) string {
	value = strings.TrimSpace(value)
	id := NormalizeField(field)
	tag, ok := fieldTags[id]
	if !ok {
		tag = "required"
	}

	err := engine().Var(value, tag)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return message(verrs[0].Tag())
	}
	return MsgRequired
}

// ValidateContact checks every field and reports the union of failures.
// Returns nil when the details are valid.
func ValidateContact(details models.ContactDetails) FieldErrors {
	details = details.Trimmed()
	form := contactForm{
		Name:    details.Name,
		Email:   details.Email,
		Phone:   details.Phone,
		Address: details.Address,
	}

	err := engine().Struct(form)
	if err == nil {
		return nil
	}

	out := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		for _, f := range structFields {
			out[f] = MsgRequired
		}
		return out
	}
	for _, fe := range verrs {
		out[structFields[fe.StructField()]] = message(fe.Tag())
	}
	return out
}

func message(tag string) string {
	switch tag {
	case "jam_email":
		return MsgInvalidEmail
	case "jam_phone":
		return MsgInvalidPhone
	case "min":
		return MsgNameTooShort
	default:
		return MsgRequired
	}
}
