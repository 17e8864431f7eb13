package bot

import (
	"errors"

	"jamservices/internal/booking"
	"jamservices/internal/payment"
	"jamservices/internal/service"
	"jamservices/internal/validation"
)

const (
	msgSessionExpired = "⌛ Your booking session has expired. Send /start to begin again."
	msgGenericError   = "❌ Something went wrong while processing your request. Please try again later."
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		stepErr  *booking.StepError
		fieldErr *validation.Error
		cardErr  *payment.CardError
	)
	switch {
	case errors.As(err, &stepErr):
		return "⚠️ " + stepErr.Message
	case errors.As(err, &fieldErr):
		fields := fieldErr.Fields.Fields()
		if len(fields) > 0 {
			return "⚠️ " + fieldErr.Fields[fields[0]]
		}
	case errors.As(err, &cardErr):
		return "⚠️ " + cardErr.Message
	case errors.Is(err, service.ErrSessionNotFound):
		return msgSessionExpired
	case errors.Is(err, payment.ErrPaymentDeclined):
		return "❌ " + payment.MsgPaymentDeclined
	case errors.Is(err, service.ErrTooManyAttempts):
		return "⚠️ Too many payment attempts. Please wait a minute and try again."
	case errors.Is(err, service.ErrPaymentInProgress), errors.Is(err, service.ErrSessionBusy):
		return "⏳ Your payment is still being processed. Please wait."
	case errors.Is(err, service.ErrNotReadyForPayment):
		return "⚠️ Please complete your booking details before paying."
	}

	return msgGenericError
}
