package payment

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"jamservices/internal/models"

	"github.com/rs/zerolog"
)

// ErrPaymentDeclined is the simulated failure branch. Retrying is allowed.
var ErrPaymentDeclined = errors.New("payment declined")

// MsgPaymentDeclined is what the customer is told about a declined charge.
const MsgPaymentDeclined = "Payment failed. Please try again with different payment details."

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// Stage is one cosmetic wait before the outcome is drawn.
type Stage struct {
	Message string
	Delay   time.Duration
}

// DefaultStages mirror the checkout loading overlay.
var DefaultStages = []Stage{
	{Message: "Processing your payment...", Delay: 2 * time.Second},
	{Message: "Confirming booking...", Delay: 1500 * time.Millisecond},
}

// Outcome decides whether a charge succeeds.
type Outcome func() bool

// SleepFunc waits d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ProgressFunc receives each stage message as it starts.
type ProgressFunc func(message string)

// Request is one charge attempt.
type Request struct {
	SessionID string
	Amount    int64
	Card      Card
}

// Receipt is a successful charge.
type Receipt struct {
	BookingID  string
	Amount     int64
	CardMasked string
	ChargedAt  time.Time
}

// Simulator stands in for a payment gateway: it waits through its stages and
// draws the outcome. No money moves.
type Simulator struct {
	outcome Outcome
	sleep   SleepFunc
	now     func() time.Time
	intn    func(n int) int
	stages  []Stage
	logger  *zerolog.Logger
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

func WithOutcome(o Outcome) SimulatorOption {
	return func(s *Simulator) {
		if o != nil {
			s.outcome = o
		}
	}
}

func WithSleep(fn SleepFunc) SimulatorOption {
	return func(s *Simulator) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

func WithClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandom sets the source used for booking id suffixes.
func WithRandom(intn func(n int) int) SimulatorOption {
	return func(s *Simulator) {
		if intn != nil {
			s.intn = intn
		}
	}
}

func WithStages(stages []Stage) SimulatorOption {
	return func(s *Simulator) {
		s.stages = append([]Stage(nil), stages...)
	}
}

// SuccessRate draws success with probability p.
func SuccessRate(p float64) Outcome {
	return func() bool { return rand.Float64() < p }
}

// AlwaysSucceed and AlwaysDecline are deterministic outcomes.
func AlwaysSucceed() bool { return true }
func AlwaysDecline() bool { return false }

// ContextSleep waits with time.Timer and honours cancellation.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NewSimulator builds a simulator with a 90% success rate and real delays.
func NewSimulator(logger *zerolog.Logger, opts ...SimulatorOption) *Simulator {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	s := &Simulator{
		outcome: SuccessRate(models.PaymentSuccessRate),
		sleep:   ContextSleep,
		now:     time.Now,
		intn:    rand.IntN,
		stages:  append([]Stage(nil), DefaultStages...),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Charge validates the card, runs the stages and draws the outcome.
func (s *Simulator) Charge(ctx context.Context, req Request, progress ProgressFunc) (*Receipt, error) {
	if err := ValidateCard(req.Card); err != nil {
		return nil, err
	}

	for _, stage := range s.stages {
		if progress != nil {
			progress(stage.Message)
		}
		s.logger.Debug().Str("session_id", req.SessionID).Str("stage", stage.Message).Msg("payment stage")
		if err := s.sleep(ctx, stage.Delay); err != nil {
			return nil, err
		}
	}

	if !s.outcome() {
		s.logger.Info().Str("session_id", req.SessionID).Int64("amount", req.Amount).Msg("simulated payment declined")
		return nil, ErrPaymentDeclined
	}

	now := s.now()
	receipt := &Receipt{
		BookingID:  NewBookingID(now, s.intn),
		Amount:     req.Amount,
		CardMasked: req.Card.Masked(),
		ChargedAt:  now,
	}
	s.logger.Info().
		Str("session_id", req.SessionID).
		Str("booking_id", receipt.BookingID).
		Int64("amount", req.Amount).
		Msg("simulated payment succeeded")
	return receipt, nil
}

// NewBookingID returns prefix + unix millis + four base-36 characters, uppercased.
func NewBookingID(now time.Time, intn func(n int) int) string {
	if intn == nil {
		intn = rand.IntN
	}
	var suffix strings.Builder
	for i := 0; i < 4; i++ {
		suffix.WriteByte(base36[intn(len(base36))])
	}
	return strings.ToUpper(models.BookingIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + suffix.String())
}
