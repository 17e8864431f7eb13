package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"jamservices/internal/booking"
	"jamservices/internal/catalog"
	"jamservices/internal/events"
	"jamservices/internal/models"
	"jamservices/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC)

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func newSessionService(t *testing.T, bus *events.EventBus) (*SessionService, *repository.MemoryDraftRepository) {
	t.Helper()
	drafts := repository.NewMemoryDraftRepository(time.Hour)
	svc := NewSessionService(drafts, catalog.Default(), bus, testLogger(),
		WithSessionClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string { return "session-1" }),
	)
	return svc, drafts
}

// walkToReady drives a session to the point where it can be paid for.
func walkToReady(t *testing.T, svc *SessionService, sessionID string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Apply(ctx, sessionID, func(w *booking.Wizard) error {
		if !w.SelectService("salon") || !w.SelectSubcategory("haircut") {
			return errors.New("selection failed")
		}
		if err := w.Advance(); err != nil {
			return err
		}
		if !w.SelectDate(testNow.AddDate(0, 0, 2)) {
			return errors.New("date rejected")
		}
		if err := w.Advance(); err != nil {
			return err
		}
		if !w.SelectTime("10:00 AM") {
			return errors.New("slot rejected")
		}
		if err := w.Advance(); err != nil {
			return err
		}
		return w.FinalizeDetails(models.ContactDetails{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Phone:   "9876543210",
			Address: "123 Main St",
		})
	})
	require.NoError(t, err)
}

func TestSessionService_StartAndGet(t *testing.T) {
	bus := events.NewEventBus()
	var started int
	bus.Subscribe(events.EventSessionStarted, func(*events.Event) error { started++; return nil })

	svc, _ := newSessionService(t, bus)
	ctx := context.Background()

	draft, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "session-1", draft.SessionID)
	assert.Equal(t, models.StepService, draft.Step)
	assert.Equal(t, 1, started)

	got, err := svc.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, draft.SessionID, got.SessionID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_Apply(t *testing.T) {
	bus := events.NewEventBus()
	var steps []int
	bus.Subscribe(events.EventStepEntered, func(e *events.Event) error {
		var p events.StepEventPayload
		if err := e.Decode(&p); err != nil {
			return err
		}
		steps = append(steps, p.Step)
		return nil
	})

	svc, _ := newSessionService(t, bus)
	ctx := context.Background()
	_, err := svc.Start(ctx)
	require.NoError(t, err)

	t.Run("SavesOnSuccess", func(t *testing.T) {
		draft, err := svc.Apply(ctx, "session-1", func(w *booking.Wizard) error {
			w.SelectService("salon")
			w.SelectSubcategory("facial")
			return w.Advance()
		})
		require.NoError(t, err)
		assert.Equal(t, models.StepDate, draft.Step)

		stored, err := svc.Get(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, models.StepDate, stored.Step)
		assert.Equal(t, "facial", stored.Subcategory.ID)
		assert.Equal(t, []int{models.StepDate}, steps)
	})

	t.Run("DiscardsOnError", func(t *testing.T) {
		draft, err := svc.Apply(ctx, "session-1", func(w *booking.Wizard) error {
			w.SelectTime("10:00 AM")
			return w.Advance()
		})
		assert.ErrorIs(t, err, booking.ErrDateRequired)
		require.NotNil(t, draft)
		assert.Equal(t, "10:00 AM", draft.Time)

		stored, _ := svc.Get(ctx, "session-1")
		assert.Empty(t, stored.Time)
		assert.Equal(t, []int{models.StepDate}, steps)
	})

	t.Run("UnknownSession", func(t *testing.T) {
		_, err := svc.Apply(ctx, "nope", func(*booking.Wizard) error { return nil })
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSessionService_SummaryAndReset(t *testing.T) {
	svc, _ := newSessionService(t, nil)
	ctx := context.Background()
	_, err := svc.Start(ctx)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "session-1")
	require.NoError(t, err)
	assert.Nil(t, summary)

	walkToReady(t, svc, "session-1")
	summary, err = svc.Summary(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(628), summary.Total)

	require.NoError(t, svc.Reset(ctx, "session-1"))
	_, err = svc.Get(ctx, "session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_StoreErrors(t *testing.T) {
	drafts := new(mockDrafts)
	svc := NewSessionService(drafts, catalog.Default(), nil, testLogger())
	ctx := context.Background()

	drafts.On("SaveDraft", ctx, mockAnyDraft).Return(errors.New("redis down")).Once()
	_, err := svc.StartWithID(ctx, "x")
	assert.ErrorContains(t, err, "redis down")

	drafts.On("GetDraft", ctx, "x").Return(nil, errors.New("redis down")).Once()
	_, err = svc.Get(ctx, "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	drafts.On("ClearDraft", ctx, "x").Return(errors.New("redis down")).Once()
	assert.Error(t, svc.Reset(ctx, "x"))
	drafts.AssertExpectations(t)
}

func TestSessionService_ConcurrentApply(t *testing.T) {
	svc, _ := newSessionService(t, nil)
	ctx := context.Background()
	_, err := svc.Start(ctx)
	require.NoError(t, err)

	date := testNow.AddDate(0, 0, 3)
	inside := make(chan struct{})
	proceed := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.Apply(ctx, "session-1", func(w *booking.Wizard) error {
			close(inside)
			<-proceed
			if !w.SelectDate(date) {
				return errors.New("date rejected")
			}
			return nil
		})
		assert.NoError(t, err)
	}()

	<-inside
	go func() {
		defer wg.Done()
		_, err := svc.Apply(ctx, "session-1", func(w *booking.Wizard) error {
			if !w.SelectTime("02:00 PM") {
				return errors.New("slot rejected")
			}
			return nil
		})
		assert.NoError(t, err)
	}()

	time.Sleep(50 * time.Millisecond)
	close(proceed)
	wg.Wait()

	stored, err := svc.Get(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, stored.Date)
	assert.Equal(t, date.Format("2006-01-02"), stored.Date.Format("2006-01-02"))
	assert.Equal(t, "02:00 PM", stored.Time)
}

func TestSessionService_ApplyWaitHonoursContext(t *testing.T) {
	svc, drafts := newSessionService(t, nil)
	ctx := context.Background()
	_, err := svc.Start(ctx)
	require.NoError(t, err)

	_, ok, err := drafts.AcquireLock(ctx, sessionLockKey("session-1"), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Apply(cancelled, "session-1", func(*booking.Wizard) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
