package repository

import (
	"context"
	"sync"
	"time"

	"jamservices/internal/models"

	"github.com/google/uuid"
)

type memoryEntry struct {
	draft     models.BookingDraft
	expiresAt time.Time
}

// MemoryDraftRepository keeps drafts in process. It is the fallback when Redis
// is unavailable and the default store in tests.
type MemoryDraftRepository struct {
	drafts     sync.Map
	rateLimits sync.Map
	locks      sync.Map
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
}

func NewMemoryDraftRepository(ttl time.Duration) *MemoryDraftRepository {
	return &MemoryDraftRepository{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemoryDraftRepository) GetDraft(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	val, ok := r.drafts.Load(sessionID)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		r.drafts.Delete(sessionID)
		return nil, nil
	}
	draft := entry.draft.Clone()
	return &draft, nil
}

func (r *MemoryDraftRepository) SaveDraft(ctx context.Context, draft *models.BookingDraft) error {
	entry := &memoryEntry{draft: draft.Clone()}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}
	r.drafts.Store(draft.SessionID, entry)
	return nil
}

func (r *MemoryDraftRepository) ClearDraft(ctx context.Context, sessionID string) error {
	r.drafts.Delete(sessionID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryDraftRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	val, ok := r.rateLimits.Load(key)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(key, entry)
	return entry.count <= limit, nil
}

type lockEntry struct {
	token     string
	expiresAt time.Time
}

func (r *MemoryDraftRepository) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if val, ok := r.locks.Load(key); ok && now.Before(val.(*lockEntry).expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	r.locks.Store(key, &lockEntry{token: token, expiresAt: now.Add(ttl)})
	return token, true, nil
}

// ReleaseLock drops the lock only while token still owns it.
func (r *MemoryDraftRepository) ReleaseLock(ctx context.Context, key, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if val, ok := r.locks.Load(key); ok && val.(*lockEntry).token == token {
		r.locks.Delete(key)
	}
	return nil
}
