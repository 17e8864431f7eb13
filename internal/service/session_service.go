package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jamservices/internal/booking"
	"jamservices/internal/catalog"
	"jamservices/internal/domain"
	"jamservices/internal/events"
	"jamservices/internal/metrics"
	"jamservices/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionService persists one booking draft per session and runs wizard
// operations against it.
type SessionService struct {
	drafts  domain.DraftRepository
	catalog *catalog.Catalog
	events  domain.EventPublisher
	logger  *zerolog.Logger
	now     func() time.Time
	newID   func() string
	locks   sessionLocker
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithSessionClock sets the clock handed to every wizard.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the uuid session id source.
func WithIDGenerator(newID func() string) SessionOption {
	return func(s *SessionService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewSessionService(
	drafts domain.DraftRepository,
	c *catalog.Catalog,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
	opts ...SessionOption,
) *SessionService {
	s := &SessionService{
		drafts:  drafts,
		catalog: c,
		events:  eventBus,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
		locks:   sessionLocker{drafts: drafts, logger: logger},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog wizards are built on.
func (s *SessionService) Catalog() *catalog.Catalog { return s.catalog }

// Now is the service clock.
func (s *SessionService) Now() time.Time { return s.now() }

// Start creates an empty draft under a new session id.
func (s *SessionService) Start(ctx context.Context) (*models.BookingDraft, error) {
	return s.StartWithID(ctx, s.newID())
}

// StartWithID creates an empty draft under sessionID, replacing any existing one.
func (s *SessionService) StartWithID(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	draft := models.NewBookingDraft(sessionID)
	draft.UpdatedAt = s.now()
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to start session")
		return nil, fmt.Errorf("start session: %w", err)
	}

	metrics.IncSessionStarted()
	s.publish(events.EventSessionStarted, events.StepEventPayload{SessionID: sessionID, Step: draft.Step})
	s.logger.Debug().Str("session_id", sessionID).Msg("session started")
	return draft, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	draft, err := s.drafts.GetDraft(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to get draft")
		return nil, fmt.Errorf("get session: %w", err)
	}
	if draft == nil {
		return nil, ErrSessionNotFound
	}
	return draft, nil
}

// Apply loads the draft, runs fn on a wizard over it and saves the result when
// fn succeeds. The returned draft reflects the wizard state after fn, saved or
// not. Calls on one session run one at a time, and wait out a running payment.
func (s *SessionService) Apply(ctx context.Context, sessionID string, fn func(w *booking.Wizard) error) (*models.BookingDraft, error) {
	unlock, err := s.locks.wait(ctx, sessionLockKey(sessionID), draftLockTTL, draftLockWait)
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var entered []int
	w := booking.NewWizard(s.catalog, draft,
		booking.WithClock(s.now),
		booking.WithStepHook(func(step int) { entered = append(entered, step) }),
	)

	if err := fn(w); err != nil {
		current := w.Draft()
		return &current, err
	}

	current := w.Draft()
	if err := s.drafts.SaveDraft(ctx, &current); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save draft")
		return nil, fmt.Errorf("save session: %w", err)
	}

	for _, step := range entered {
		metrics.IncStep(step)
		s.publish(events.EventStepEntered, events.StepEventPayload{SessionID: sessionID, Step: step})
	}
	return &current, nil
}

// Summary returns the order summary of the session's draft.
func (s *SessionService) Summary(ctx context.Context, sessionID string) (*models.OrderSummary, error) {
	draft, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return booking.NewWizard(s.catalog, draft).Summary(), nil
}

// Reset discards the session and its draft.
func (s *SessionService) Reset(ctx context.Context, sessionID string) error {
	if err := s.drafts.ClearDraft(ctx, sessionID); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to reset session")
		return fmt.Errorf("reset session: %w", err)
	}
	s.publish(events.EventSessionReset, events.StepEventPayload{SessionID: sessionID})
	return nil
}

func (s *SessionService) publish(eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("event handler failed")
	}
}
