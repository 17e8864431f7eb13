package payment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Card is the raw payment form.
type Card struct {
	Number     string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	HolderName string `json:"cardholder_name"`
}

// Card form field identifiers.
const (
	FieldCardNumber = "card_number"
	FieldExpiry     = "expiry"
	FieldCVV        = "cvv"
	FieldHolderName = "cardholder_name"
)

var ErrInvalidCard = errors.New("invalid card details")

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
	nonDigits         = regexp.MustCompile(`\D`)
	whitespace        = regexp.MustCompile(`\s+`)
)

// CardError names the first offending card field.
type CardError struct {
	Field   string
	Message string
}

func (e *CardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *CardError) Unwrap() error { return ErrInvalidCard }

// ValidateCard checks the fields in form order and stops at the first failure.
func ValidateCard(card Card) error {
	if !cardNumberPattern.MatchString(whitespace.ReplaceAllString(card.Number, "")) {
		return &CardError{Field: FieldCardNumber, Message: "Please enter a valid 16-digit card number"}
	}
	if !expiryPattern.MatchString(strings.TrimSpace(card.Expiry)) {
		return &CardError{Field: FieldExpiry, Message: "Please enter a valid expiry date (MM/YY)"}
	}
	if !cvvPattern.MatchString(strings.TrimSpace(card.CVV)) {
		return &CardError{Field: FieldCVV, Message: "Please enter a valid 3-digit CVV"}
	}
	if len([]rune(strings.TrimSpace(card.HolderName))) < 2 {
		return &CardError{Field: FieldHolderName, Message: "Please enter the cardholder name"}
	}
	return nil
}

// FormatCardNumber keeps digits and groups them by four: "4111 1111 1111 1111".
func FormatCardNumber(value string) string {
	digits := nonDigits.ReplaceAllString(value, "")
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry masks input as MM/YY once two digits are typed.
func FormatExpiry(value string) string {
	digits := nonDigits.ReplaceAllString(value, "")
	if len(digits) < 2 {
		return digits
	}
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits[:2] + "/" + digits[2:]
}

// FormatCVV keeps at most three digits.
func FormatCVV(value string) string {
	digits := nonDigits.ReplaceAllString(value, "")
	if len(digits) > 3 {
		digits = digits[:3]
	}
	return digits
}

// Masked renders the number with only the last four digits visible.
func (c Card) Masked() string {
	digits := nonDigits.ReplaceAllString(c.Number, "")
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}
