package repository

import (
	"context"
	"testing"
	"time"

	"jamservices/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft(sessionID string) *models.BookingDraft {
	date := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	draft := models.NewBookingDraft(sessionID)
	draft.Step = models.StepTime
	draft.Service = &models.Service{ID: "salon", Name: "Salon Services"}
	draft.Subcategory = &models.Subcategory{ID: "haircut", Name: "Haircut & Styling", Price: 599, PlatformFee: 29}
	draft.Date = &date
	draft.Time = "10:00 AM"
	return draft
}

func TestMemoryDraftRepository(t *testing.T) {
	repo := NewMemoryDraftRepository(time.Hour)
	ctx := context.Background()

	t.Run("SaveAndGetDraft", func(t *testing.T) {
		draft := sampleDraft("s-1")
		err := repo.SaveDraft(ctx, draft)
		require.NoError(t, err)

		got, err := repo.GetDraft(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, draft, got)
	})

	t.Run("StoresCopy", func(t *testing.T) {
		draft := sampleDraft("s-2")
		require.NoError(t, repo.SaveDraft(ctx, draft))
		draft.Subcategory.Name = "changed"

		got, _ := repo.GetDraft(ctx, "s-2")
		assert.Equal(t, "Haircut & Styling", got.Subcategory.Name)
	})

	t.Run("GetMissing", func(t *testing.T) {
		got, err := repo.GetDraft(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearDraft", func(t *testing.T) {
		err := repo.ClearDraft(ctx, "s-1")
		require.NoError(t, err)
		got, _ := repo.GetDraft(ctx, "s-1")
		assert.Nil(t, got)
	})

	t.Run("Expiry", func(t *testing.T) {
		now := time.Now()
		repo := NewMemoryDraftRepository(time.Minute)
		repo.now = func() time.Time { return now }
		require.NoError(t, repo.SaveDraft(ctx, sampleDraft("s-3")))

		now = now.Add(2 * time.Minute)
		got, err := repo.GetDraft(ctx, "s-3")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		now := time.Now()
		repo.now = func() time.Time { return now }
		key := "payment:s-1"

		allowed, _ := repo.CheckRateLimit(ctx, key, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, key, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, key, 2, time.Second)
		assert.False(t, allowed)

		now = now.Add(time.Second + 10*time.Millisecond)
		allowed, _ = repo.CheckRateLimit(ctx, key, 2, time.Second)
		assert.True(t, allowed)
	})

	t.Run("Lock", func(t *testing.T) {
		now := time.Now()
		repo := NewMemoryDraftRepository(time.Hour)
		repo.now = func() time.Time { return now }

		token, ok, err := repo.AcquireLock(ctx, "session:s-1", time.Second)
		require.NoError(t, err)
		require.True(t, ok)

		_, ok, _ = repo.AcquireLock(ctx, "session:s-1", time.Second)
		assert.False(t, ok)

		require.NoError(t, repo.ReleaseLock(ctx, "session:s-1", "someone-else"))
		_, ok, _ = repo.AcquireLock(ctx, "session:s-1", time.Second)
		assert.False(t, ok)

		require.NoError(t, repo.ReleaseLock(ctx, "session:s-1", token))
		stale, ok, _ := repo.AcquireLock(ctx, "session:s-1", time.Second)
		assert.True(t, ok)

		now = now.Add(2 * time.Second)
		fresh, ok, _ := repo.AcquireLock(ctx, "session:s-1", time.Second)
		assert.True(t, ok)

		// The expired holder can not free the new one.
		require.NoError(t, repo.ReleaseLock(ctx, "session:s-1", stale))
		_, ok, _ = repo.AcquireLock(ctx, "session:s-1", time.Second)
		assert.False(t, ok)
		require.NoError(t, repo.ReleaseLock(ctx, "session:s-1", fresh))
	})
}

