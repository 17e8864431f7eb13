package service

import (
	"context"
	"strings"

	"jamservices/internal/domain"
	"jamservices/internal/models"
	"jamservices/internal/validation"

	"github.com/rs/zerolog"
)

// MaxHistoryLimit caps a single history page.
const MaxHistoryLimit = 500

type HistoryService struct {
	bookings domain.BookingRepository
	logger   *zerolog.Logger
}

func NewHistoryService(bookings domain.BookingRepository, logger *zerolog.Logger) *HistoryService {
	return &HistoryService{bookings: bookings, logger: logger}
}

// List returns the newest bookings, limit clamped to [1, MaxHistoryLimit].
func (s *HistoryService) List(ctx context.Context, limit int) ([]*models.ConfirmedBooking, error) {
	switch {
	case limit <= 0:
		limit = models.DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	bookings, err := s.bookings.ListBookings(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list bookings")
		return nil, err
	}
	return bookings, nil
}

func (s *HistoryService) Get(ctx context.Context, id string) (*models.ConfirmedBooking, error) {
	return s.bookings.GetBooking(ctx, strings.TrimSpace(id))
}

// ListByEmail returns the bookings of one customer.
func (s *HistoryService) ListByEmail(ctx context.Context, email string) ([]*models.ConfirmedBooking, error) {
	email = strings.TrimSpace(email)
	if msg := validation.ValidateField(validation.FieldEmail, email); msg != "" {
		return nil, &validation.Error{Fields: validation.FieldErrors{validation.FieldEmail: msg}}
	}
	return s.bookings.ListBookingsByEmail(ctx, email)
}
