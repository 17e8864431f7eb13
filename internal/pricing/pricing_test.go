package pricing

import (
	"testing"
	"time"

	"jamservices/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name string
		sub  models.Subcategory
		want int64
	}{
		{name: "haircut", sub: models.Subcategory{Price: 599, PlatformFee: 29}, want: 628},
		{name: "default fee", sub: models.Subcategory{Price: 599}, want: 628},
		{name: "custom fee", sub: models.Subcategory{Price: 1000, PlatformFee: 50}, want: 1050},
		{name: "free service", sub: models.Subcategory{Price: 0, PlatformFee: 29}, want: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotal(tt.sub))
		})
	}
}

func TestBuildSummary(t *testing.T) {
	t.Run("NoSubcategory", func(t *testing.T) {
		assert.Nil(t, BuildSummary(nil))
		assert.Nil(t, BuildSummary(models.NewBookingDraft("s")))
	})

	t.Run("PriceOnly", func(t *testing.T) {
		draft := models.NewBookingDraft("s")
		draft.Service = &models.Service{ID: "salon", Name: "Salon Services"}
		draft.Subcategory = &models.Subcategory{ID: "haircut", Name: "Haircut & Styling", Price: 599}

		summary := BuildSummary(draft)
		require.NotNil(t, summary)
		assert.Equal(t, "Salon Services", summary.ServiceName)
		assert.Equal(t, "Haircut & Styling", summary.SubcategoryName)
		assert.Equal(t, int64(599), summary.Price)
		assert.Equal(t, int64(29), summary.PlatformFee)
		assert.Equal(t, int64(628), summary.Total)
		assert.Nil(t, summary.Date)
		assert.Empty(t, summary.Time)
	})

	t.Run("WithDateAndTime", func(t *testing.T) {
		date := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
		draft := models.NewBookingDraft("s")
		draft.Subcategory = &models.Subcategory{Name: "AC Repair", Price: 399, PlatformFee: 29}
		draft.Date = &date
		draft.Time = "10:00 AM"

		summary := BuildSummary(draft)
		require.NotNil(t, summary)
		require.NotNil(t, summary.Date)
		assert.True(t, date.Equal(*summary.Date))
		assert.Equal(t, "10:00 AM", summary.Time)
		assert.Equal(t, int64(428), summary.Total)
	})
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹628", FormatPrice(628))
	assert.Equal(t, "₹0", FormatPrice(0))
}
