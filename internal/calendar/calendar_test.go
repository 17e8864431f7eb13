package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		month time.Month
		year  int
		want  int
	}{
		{time.January, 2025, 31},
		{time.February, 2025, 28},
		{time.February, 2024, 29},
		{time.February, 1900, 28},
		{time.February, 2000, 29},
		{time.April, 2025, 30},
		{time.December, 2025, 31},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysInMonth(tt.month, tt.year), "%s %d", tt.month, tt.year)
	}
}

func TestFirstWeekdayOfMonth(t *testing.T) {
	// 1 Jan 2025 was a Wednesday, 1 Jun 2025 a Sunday.
	assert.Equal(t, 3, FirstWeekdayOfMonth(time.January, 2025))
	assert.Equal(t, 0, FirstWeekdayOfMonth(time.June, 2025))
	assert.Equal(t, 6, FirstWeekdayOfMonth(time.February, 2025))
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2025, 1, 15, 18, 30, 0, 0, time.Local)

	assert.True(t, IsPastDate(time.Date(2025, 1, 14, 23, 59, 0, 0, time.Local), now))
	assert.False(t, IsPastDate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local), now))
	assert.False(t, IsPastDate(time.Date(2025, 1, 15, 23, 0, 0, 0, time.Local), now))
	assert.False(t, IsPastDate(time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local), now))
	assert.True(t, IsPastDate(time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local), now))
}

func TestIsToday(t *testing.T) {
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	assert.True(t, IsToday(time.Date(2025, 1, 15, 23, 59, 59, 0, time.UTC), now))
	assert.False(t, IsToday(time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsToday(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), now))
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	got := StartOfDay(time.Date(2025, 3, 9, 17, 45, 12, 99, loc))
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, loc), got)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-08-05", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("05/08/2025", time.UTC)
	assert.Error(t, err)

	d, err = ParseDate("2025-08-05", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Local, d.Location())
}

func TestViewState_ChangeMonth(t *testing.T) {
	t.Run("DecemberForward", func(t *testing.T) {
		got := ViewState{Month: time.December, Year: 2025}.ChangeMonth(1)
		assert.Equal(t, ViewState{Month: time.January, Year: 2026}, got)
	})

	t.Run("JanuaryBackward", func(t *testing.T) {
		got := ViewState{Month: time.January, Year: 2025}.ChangeMonth(-1)
		assert.Equal(t, ViewState{Month: time.December, Year: 2024}, got)
	})

	t.Run("WithinYear", func(t *testing.T) {
		got := ViewState{Month: time.May, Year: 2025}.ChangeMonth(1)
		assert.Equal(t, ViewState{Month: time.June, Year: 2025}, got)
	})

	t.Run("LargeDeltas", func(t *testing.T) {
		assert.Equal(t, ViewState{Month: time.March, Year: 2027}, ViewState{Month: time.March, Year: 2025}.ChangeMonth(24))
		assert.Equal(t, ViewState{Month: time.November, Year: 2023}, ViewState{Month: time.January, Year: 2025}.ChangeMonth(-14))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		v := ViewState{Month: time.December, Year: 2025}
		assert.Equal(t, v, v.ChangeMonth(1).ChangeMonth(-1))
	})
}

func TestBuildGrid(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	selected := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	grid := BuildGrid(NewViewState(now), &selected, now)

	assert.Equal(t, "January 2025", grid.Title)
	assert.Equal(t, 1, grid.Month)
	assert.Equal(t, 2025, grid.Year)
	assert.Equal(t, 3, grid.LeadingBlanks)
	assert.Len(t, grid.Headers, 7)
	require.Len(t, grid.Days, 31)

	assert.True(t, grid.Days[13].IsPast)
	assert.False(t, grid.Days[14].IsPast)
	assert.True(t, grid.Days[14].IsToday)
	assert.Equal(t, "2025-01-15", grid.Days[14].Date)
	assert.True(t, grid.Days[19].IsSelected)
	assert.False(t, grid.Days[18].IsSelected)

	assert.Equal(t, ViewState{Month: time.December, Year: 2024}, grid.PreviousMonth)
	assert.Equal(t, ViewState{Month: time.February, Year: 2025}, grid.FollowingMonth)

	t.Run("NoSelection", func(t *testing.T) {
		grid := BuildGrid(ViewState{Month: time.February, Year: 2025}, nil, now)
		require.Len(t, grid.Days, 28)
		for _, d := range grid.Days {
			assert.False(t, d.IsSelected)
			assert.False(t, d.IsPast)
		}
	})
}
