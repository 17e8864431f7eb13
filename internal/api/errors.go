package api

import (
	"errors"
	"net/http"

	"jamservices/internal/booking"
	"jamservices/internal/database"
	"jamservices/internal/payment"
	"jamservices/internal/service"
	"jamservices/internal/validation"
)

type errorResponse struct {
	Error  string                 `json:"error"`
	Step   int                    `json:"step,omitempty"`
	Field  string                 `json:"field,omitempty"`
	Fields validation.FieldErrors `json:"fields,omitempty"`
}

// statusFor maps a service error onto its HTTP status and response body.
func statusFor(err error) (int, errorResponse) {
	var (
		stepErr  *booking.StepError
		fieldErr *validation.Error
		cardErr  *payment.CardError
	)
	switch {
	case errors.As(err, &stepErr):
		return http.StatusBadRequest, errorResponse{Error: stepErr.Message, Step: stepErr.Step}
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fieldErr.Fields}
	case errors.As(err, &cardErr):
		return http.StatusUnprocessableEntity, errorResponse{Error: cardErr.Message, Field: cardErr.Field}
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, database.ErrBookingNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, payment.ErrPaymentDeclined):
		return http.StatusPaymentRequired, errorResponse{Error: payment.MsgPaymentDeclined}
	case errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorResponse{Error: service.ErrTooManyAttempts.Error()}
	case errors.Is(err, service.ErrNotReadyForPayment),
		errors.Is(err, service.ErrPaymentInProgress),
		errors.Is(err, service.ErrSessionBusy),
		errors.Is(err, booking.ErrNotAtDetails),
		errors.Is(err, booking.ErrUseFinalize):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal error"}
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, body)
}
