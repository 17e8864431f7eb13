package bot

import (
	"fmt"
	"strings"

	"jamservices/internal/models"
	"jamservices/internal/pricing"
	"jamservices/internal/validation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	msgWelcome = "👋 Welcome to *JAM Services*!\n\nChoose a service to start your booking:"
	msgHelp    = "Send /start to book a service, /cancel to discard your current booking."
	msgCancel  = "Your booking was discarded. Send /start whenever you want to book again."
	msgLimited = "⚠️ You are sending messages too often. Please wait a moment."

	msgPastDate  = "Past dates can not be selected"
	msgNoChanges = "That option is not available"

	msgCardFormat = "💳 Send your card details in one message:\n" +
		"`<16-digit number> <MM/YY> <CVV> <cardholder name>`\n\n" +
		"Example: `4111 1111 1111 1111 12/27 123 Jane Doe`\n\n" +
		"_This is a simulated payment. No money is charged._"
)

// contactFields is the order the details step asks in.
var contactFields = []string{
	validation.FieldName,
	validation.FieldEmail,
	validation.FieldPhone,
	validation.FieldAddress,
}

var fieldPrompts = map[string]string{
	validation.FieldName:    "👤 Please enter your full name:",
	validation.FieldEmail:   "📧 Please enter your email address:",
	validation.FieldPhone:   "📱 Please enter your 10-digit mobile number:",
	validation.FieldAddress: "🏠 Please enter the service address:",
}

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func stepTitle(step int, title string) string {
	return fmt.Sprintf("*Step %d of %d:* %s", step, models.LastStep, title)
}

func serviceText(svc models.Service) string {
	var b strings.Builder
	b.WriteString(stepTitle(models.StepService, "choose a package"))
	b.WriteString("\n\n*")
	b.WriteString(esc(svc.Name))
	b.WriteString("*")
	if svc.Description != "" {
		b.WriteString("\n")
		b.WriteString(esc(svc.Description))
	}
	return b.String()
}

func summaryText(summary *models.OrderSummary) string {
	if summary == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("*Order summary*\n")
	if summary.ServiceName != "" {
		fmt.Fprintf(&b, "Service: %s\n", esc(summary.ServiceName))
	}
	fmt.Fprintf(&b, "Package: %s\n", esc(summary.SubcategoryName))
	fmt.Fprintf(&b, "Price: %s\n", pricing.FormatPrice(summary.Price))
	fmt.Fprintf(&b, "Platform fee: %s\n", pricing.FormatPrice(summary.PlatformFee))
	fmt.Fprintf(&b, "*Total: %s*", pricing.FormatPrice(summary.Total))
	if summary.Date != nil {
		fmt.Fprintf(&b, "\nDate: %s", summary.Date.Format(models.DisplayDateLayout))
	}
	if summary.Time != "" {
		fmt.Fprintf(&b, "\nTime: %s", esc(summary.Time))
	}
	return b.String()
}

func contactText(c models.ContactDetails) string {
	return fmt.Sprintf("*Contact*\n%s\n%s\n%s\n%s",
		esc(c.Name), esc(c.Email), esc(c.Phone), esc(c.Address))
}

func confirmationText(b *models.ConfirmedBooking) string {
	return fmt.Sprintf("✅ *Booking confirmed!*\n\n"+
		"Booking ID: `%s`\n"+
		"%s · %s\n"+
		"%s at %s\n"+
		"Amount paid: %s\n\n"+
		"A confirmation has been recorded for %s.",
		b.ID,
		esc(b.ServiceName), esc(b.SubcategoryName),
		b.Date.Format(models.DisplayDateLayout), esc(b.Time),
		pricing.FormatPrice(b.AmountPaid),
		esc(b.Customer.Email),
	)
}
