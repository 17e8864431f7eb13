package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jamservices/internal/domain"

	"github.com/rs/zerolog"
)

// ErrSessionBusy is returned when another request kept the session locked for
// longer than a caller is willing to wait.
var ErrSessionBusy = errors.New("session is busy, please retry")

const (
	draftLockTTL   = 10 * time.Second
	draftLockWait  = 5 * time.Second
	lockRetryDelay = 25 * time.Millisecond
)

func sessionLockKey(sessionID string) string { return "session:" + sessionID }
func paymentLockKey(sessionID string) string { return "payment:" + sessionID }

// sessionLocker serializes work on one session across requests and processes
// sharing the draft store.
type sessionLocker struct {
	drafts domain.DraftRepository
	logger *zerolog.Logger
}

// try claims key once. ok is false when someone else holds it.
func (l sessionLocker) try(ctx context.Context, key string, ttl time.Duration) (unlock func(), ok bool, err error) {
	token, ok, err := l.drafts.AcquireLock(ctx, key, ttl)
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		// Release even when the request context is already cancelled.
		if err := l.drafts.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
			l.logger.Warn().Err(err).Str("lock", key).Msg("failed to release lock")
		}
	}, true, nil
}

// wait polls for key until it is free, wait elapses or ctx ends.
func (l sessionLocker) wait(ctx context.Context, key string, ttl, wait time.Duration) (func(), error) {
	deadline := time.Now().Add(wait)
	for {
		unlock, ok, err := l.try(ctx, key, ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return unlock, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrSessionBusy
		}

		timer := time.NewTimer(lockRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
