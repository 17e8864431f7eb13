package validation

import (
	"errors"
	"testing"

	"jamservices/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"9876543210", true},
		{"6000000000", true},
		{"98765 43210", true},
		{"(987) 654-3210", true},
		{"5876543210", false},
		{"987654321", false},
		{"98765432101", false},
		{"", false},
		{"abcdefghij", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidPhone(tt.phone), "phone %q", tt.phone)
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"jane@example.com", true},
		{"first.last@sub.domain.in", true},
		{"a@b", false},
		{"a.com", false},
		{"a b@c.d", false},
		{"@b.co", false},
		{"a@@b.co", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidEmail(tt.email), "email %q", tt.email)
	}
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"empty name", "name", "   ", MsgRequired},
		{"short name", "full-name", " J ", MsgNameTooShort},
		{"ok name", "name", "Jo", ""},
		{"empty email", "email", "", MsgRequired},
		{"bad email", "email", "a@b", MsgInvalidEmail},
		{"ok email", "email", " a@b.co ", ""},
		{"bad phone", "phone", "5876543210", MsgInvalidPhone},
		{"ok phone", "phone", "98765-43210", ""},
		{"empty address", "address", "", MsgRequired},
		{"ok address", "address", "123 Main St", ""},
		{"unknown field empty", "notes", "", MsgRequired},
		{"unknown field filled", "notes", "anything", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(tt.field, tt.value))
		})
	}
}

func TestValidateContact(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		errs := ValidateContact(models.ContactDetails{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Phone:   "9876543210",
			Address: "123 Main St",
		})
		assert.Nil(t, errs)
	})

	t.Run("ReportsEveryFailure", func(t *testing.T) {
		errs := ValidateContact(models.ContactDetails{
			Name:  "J",
			Email: "a.com",
			Phone: "12345",
		})
		require.Len(t, errs, 4)
		assert.Equal(t, MsgNameTooShort, errs[FieldName])
		assert.Equal(t, MsgInvalidEmail, errs[FieldEmail])
		assert.Equal(t, MsgInvalidPhone, errs[FieldPhone])
		assert.Equal(t, MsgRequired, errs[FieldAddress])
		assert.Equal(t, []string{FieldAddress, FieldEmail, FieldName, FieldPhone}, errs.Fields())
	})

	t.Run("WhitespaceOnlyIsRequired", func(t *testing.T) {
		errs := ValidateContact(models.ContactDetails{
			Name:    "  ",
			Email:   "jane@example.com",
			Phone:   "9876543210",
			Address: "\t",
		})
		require.Len(t, errs, 2)
		assert.Equal(t, MsgRequired, errs[FieldName])
		assert.Equal(t, MsgRequired, errs[FieldAddress])
	})
}

func TestError(t *testing.T) {
	err := error(&Error{Fields: FieldErrors{FieldEmail: MsgInvalidEmail, FieldAddress: MsgRequired}})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "validation failed: address: This field is required; email: Please enter a valid email address", err.Error())

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
}

func TestNormalizeField(t *testing.T) {
	assert.Equal(t, FieldName, NormalizeField("full-name"))
	assert.Equal(t, FieldName, NormalizeField("Name"))
	assert.Equal(t, FieldEmail, NormalizeField("email"))
	assert.Equal(t, "", NormalizeField("cvv"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "9876543210", DigitsOnly("+(98) 765-43210"))
	assert.Equal(t, "", DigitsOnly("abc"))
}

func TestEngineRegistration(t *testing.T) {
	require.NotPanics(t, func() { engine() })
	assert.NoError(t, engine().Var("9876543210", "jam_phone"))
	assert.Error(t, engine().Var("a@b", "jam_email"))

	assert.Panics(t, func() {
		mustRegister(validator.New(), "", func(validator.FieldLevel) bool { return true })
	})
}
