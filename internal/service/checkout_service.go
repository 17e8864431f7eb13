package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jamservices/internal/config"
	"jamservices/internal/domain"
	"jamservices/internal/events"
	"jamservices/internal/metrics"
	"jamservices/internal/models"
	"jamservices/internal/payment"
	"jamservices/internal/pricing"

	"github.com/rs/zerolog"
)

var (
	ErrNotReadyForPayment = errors.New("booking details are not complete")
	ErrTooManyAttempts    = errors.New("too many payment attempts, please wait a minute")
	ErrPaymentInProgress  = errors.New("a payment for this booking is already in progress")
)

// minPaymentLockTTL bounds how long a crashed payment can keep a session locked.
const minPaymentLockTTL = time.Minute

// Charger takes payment for a request.
type Charger interface {
	Charge(ctx context.Context, req payment.Request, progress payment.ProgressFunc) (*payment.Receipt, error)
}

// CheckoutService turns a ready draft into a confirmed booking.
type CheckoutService struct {
	drafts   domain.DraftRepository
	bookings domain.BookingRepository
	charger  Charger
	events   domain.EventPublisher
	limit    int
	window   time.Duration
	lockTTL  time.Duration
	locks    sessionLocker
	logger   *zerolog.Logger
}

func NewCheckoutService(
	drafts domain.DraftRepository,
	bookings domain.BookingRepository,
	charger Charger,
	eventBus domain.EventPublisher,
	cfg config.PaymentConfig,
	logger *zerolog.Logger,
) *CheckoutService {
	limit := cfg.RateLimitAttempts
	if limit <= 0 {
		limit = models.PaymentRateLimitAttempts
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = models.PaymentRateLimitWindow * time.Second
	}
	lockTTL := cfg.ProcessingDelay + cfg.ConfirmDelay + 30*time.Second
	if lockTTL < minPaymentLockTTL {
		lockTTL = minPaymentLockTTL
	}
	return &CheckoutService{
		drafts:   drafts,
		bookings: bookings,
		charger:  charger,
		events:   eventBus,
		limit:    limit,
		window:   window,
		lockTTL:  lockTTL,
		locks:    sessionLocker{drafts: drafts, logger: logger},
		logger:   logger,
	}
}

// Pay charges the draft total. On success the booking is stored and the draft
// cleared; on a declined charge the draft is left as is so the customer can
// retry. Only one payment per session runs at a time; a second one gets
// ErrPaymentInProgress.
func (s *CheckoutService) Pay(
	ctx context.Context,
	sessionID string,
	card payment.Card,
	progress payment.ProgressFunc,
) (*models.ConfirmedBooking, error) {
	unlockPayment, ok, err := s.locks.try(ctx, paymentLockKey(sessionID), s.lockTTL)
	if err != nil {
		metrics.IncPayment(metrics.OutcomeError)
		return nil, err
	}
	if !ok {
		metrics.IncPayment(metrics.OutcomeInProgress)
		s.logger.Warn().Str("session_id", sessionID).Msg("payment already in progress")
		return nil, ErrPaymentInProgress
	}
	defer unlockPayment()

	// Held through the charge so wizard edits wait until the draft is settled.
	unlock, err := s.locks.wait(ctx, sessionLockKey(sessionID), s.lockTTL, draftLockWait)
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft, err := s.drafts.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if draft == nil {
		return nil, ErrSessionNotFound
	}

	summary := pricing.BuildSummary(draft)
	if !draft.ReadyForPayment || draft.Contact == nil || draft.Date == nil || draft.Time == "" || summary == nil {
		return nil, ErrNotReadyForPayment
	}

	if err := payment.ValidateCard(card); err != nil {
		metrics.IncPayment(metrics.OutcomeInvalid)
		return nil, err
	}

	allowed, err := s.drafts.CheckRateLimit(ctx, "payment:"+sessionID, s.limit, s.window)
	if err != nil {
		metrics.IncPayment(metrics.OutcomeError)
		return nil, fmt.Errorf("check payment rate limit: %w", err)
	}
	if !allowed {
		metrics.IncPayment(metrics.OutcomeLimited)
		s.logger.Warn().Str("session_id", sessionID).Msg("payment rate limit exceeded")
		return nil, ErrTooManyAttempts
	}

	receipt, err := s.charger.Charge(ctx, payment.Request{
		SessionID: sessionID,
		Amount:    summary.Total,
		Card:      card,
	}, progress)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentDeclined) {
			metrics.IncPayment(metrics.OutcomeDeclined)
			s.publish(events.EventPaymentFailed, events.BookingEventPayload{
				SessionID: sessionID,
				Amount:    summary.Total,
				Date:      *draft.Date,
				Time:      draft.Time,
				Reason:    err.Error(),
			})
			return nil, err
		}
		metrics.IncPayment(metrics.OutcomeError)
		return nil, fmt.Errorf("charge: %w", err)
	}

	confirmed := &models.ConfirmedBooking{
		ID:              receipt.BookingID,
		SessionID:       sessionID,
		ServiceName:     summary.ServiceName,
		SubcategoryName: summary.SubcategoryName,
		Date:            *draft.Date,
		Time:            draft.Time,
		Customer:        *draft.Contact,
		AmountPaid:      summary.Total,
		Status:          models.StatusConfirmed,
		CreatedAt:       receipt.ChargedAt,
	}
	if err := s.bookings.CreateBooking(ctx, confirmed); err != nil {
		metrics.IncPayment(metrics.OutcomeError)
		s.logger.Error().Err(err).
			Str("session_id", sessionID).
			Str("booking_id", confirmed.ID).
			Msg("payment succeeded but booking could not be stored")
		return nil, fmt.Errorf("store booking: %w", err)
	}

	metrics.IncPayment(metrics.OutcomeSuccess)
	metrics.ObserveBooking(confirmed.ServiceName, confirmed.AmountPaid)
	s.publish(events.EventBookingConfirmed, events.BookingEventPayload{
		BookingID:       confirmed.ID,
		SessionID:       sessionID,
		ServiceName:     confirmed.ServiceName,
		SubcategoryName: confirmed.SubcategoryName,
		CustomerEmail:   confirmed.Customer.Email,
		Amount:          confirmed.AmountPaid,
		Date:            confirmed.Date,
		Time:            confirmed.Time,
	})

	if err := s.drafts.ClearDraft(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear paid draft")
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("booking_id", confirmed.ID).
		Int64("amount", confirmed.AmountPaid).
		Msg("booking confirmed")
	return confirmed, nil
}

func (s *CheckoutService) publish(eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("event handler failed")
	}
}
