package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"jamservices/internal/domain"
	"jamservices/internal/models"

	"github.com/rs/zerolog"
)

// recoveryInterval is how long the primary stays bypassed after a failure.
const recoveryInterval = time.Minute

// FailoverDraftRepository sends calls to primary and switches to fallback
// while primary is failing.
type FailoverDraftRepository struct {
	primary   domain.DraftRepository
	fallback  domain.DraftRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
	now       func() time.Time
}

func NewFailoverDraftRepository(primary, fallback domain.DraftRepository, logger *zerolog.Logger) *FailoverDraftRepository {
	return &FailoverDraftRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// usePrimary reports whether the next call should try primary.
func (r *FailoverDraftRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Sub(r.lastCheck) > recoveryInterval
}

func (r *FailoverDraftRepository) markDown(err error) {
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary draft repository failed, falling back to memory")
	}
	r.mu.Lock()
	r.lastCheck = r.now()
	r.mu.Unlock()
}

func (r *FailoverDraftRepository) markUp() {
	if r.isDown.Swap(false) {
		r.logger.Info().Msg("Primary draft repository recovered")
	}
}

func (r *FailoverDraftRepository) GetDraft(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	if r.usePrimary() {
		draft, err := r.primary.GetDraft(ctx, sessionID)
		if err == nil {
			r.markUp()
			return draft, nil
		}
		r.markDown(err)
	}

	return r.fallback.GetDraft(ctx, sessionID)
}

func (r *FailoverDraftRepository) SaveDraft(ctx context.Context, draft *models.BookingDraft) error {
	if r.usePrimary() {
		err := r.primary.SaveDraft(ctx, draft)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SaveDraft(ctx, draft)
}

func (r *FailoverDraftRepository) ClearDraft(ctx context.Context, sessionID string) error {
	if r.usePrimary() {
		err := r.primary.ClearDraft(ctx, sessionID)
		if err == nil {
			r.markUp()
			return r.fallback.ClearDraft(ctx, sessionID)
		}
		r.markDown(err)
	}

	return r.fallback.ClearDraft(ctx, sessionID)
}

func (r *FailoverDraftRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			r.markUp()
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}

func (r *FailoverDraftRepository) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if r.usePrimary() {
		token, ok, err := r.primary.AcquireLock(ctx, key, ttl)
		if err == nil {
			r.markUp()
			return token, ok, nil
		}
		r.markDown(err)
	}

	return r.fallback.AcquireLock(ctx, key, ttl)
}

// ReleaseLock releases on both stores. Only the one holding token drops the key.
func (r *FailoverDraftRepository) ReleaseLock(ctx context.Context, key, token string) error {
	if r.usePrimary() {
		if err := r.primary.ReleaseLock(ctx, key, token); err != nil {
			r.markDown(err)
		}
	}
	return r.fallback.ReleaseLock(ctx, key, token)
}
