package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jamservices/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "source.db")
	storagePath := filepath.Join(tempDir, "backups")

	logger := zerolog.Nop()
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	require.NoError(t, db.CreateBooking(context.Background(), sampleBooking("SH1", "a@example.com", time.Now())))
	require.NoError(t, db.Close())

	cfg := config.BackupConfig{
		Enabled:       true,
		StoragePath:   storagePath,
		RetentionDays: 1,
	}
	s := NewBackupService(dbPath, cfg, &logger)

	t.Run("PerformBackup", func(t *testing.T) {
		path, err := s.PerformBackup(context.Background())
		require.NoError(t, err)
		assert.FileExists(t, path)

		restored, err := NewDB(path, &logger)
		require.NoError(t, err)
		defer restored.Close()
		count, err := restored.CountBookings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("CleanupOldBackups", func(t *testing.T) {
		oldFile := filepath.Join(storagePath, "bookings_old.db")
		require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))

		oldTime := time.Now().AddDate(0, 0, -2)
		require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

		s.CleanupOldBackups()

		files, err := os.ReadDir(storagePath)
		assert.NoError(t, err)
		assert.Len(t, files, 1)
		assert.NotEqual(t, "bookings_old.db", files[0].Name())
	})
}

func TestBackupService_Interval(t *testing.T) {
	logger := zerolog.Nop()
	assert.Equal(t, 24*time.Hour, NewBackupService("x", config.BackupConfig{}, &logger).Interval())
	assert.Equal(t, time.Hour, NewBackupService("x", config.BackupConfig{Schedule: "1h"}, &logger).Interval())
	assert.Equal(t, 24*time.Hour, NewBackupService("x", config.BackupConfig{Schedule: "daily"}, &logger).Interval())
}

func TestBackupService_Disabled(t *testing.T) {
	logger := zerolog.Nop()
	s := NewBackupService("any", config.BackupConfig{Enabled: false}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)

	s = NewBackupService(":memory:", config.BackupConfig{Enabled: true, StoragePath: t.TempDir()}, &logger)
	s.Start(ctx)
}
