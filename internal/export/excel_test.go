package export

import (
	"bytes"
	"testing"
	"time"

	"jamservices/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleBookings() []*models.ConfirmedBooking {
	return []*models.ConfirmedBooking{
		{
			ID:              "SH1736935200000ABCD",
			ServiceName:     "Salon Services",
			SubcategoryName: "Haircut & Styling",
			Date:            time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			Time:            "10:00 AM",
			Customer: models.ContactDetails{
				Name:    "Jane Doe",
				Email:   "jane@example.com",
				Phone:   "9876543210",
				Address: "123 Main St",
			},
			AmountPaid: 628,
			Status:     models.StatusConfirmed,
			CreatedAt:  time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}
}

func newExporter(t *testing.T) *Exporter {
	logger := zerolog.Nop()
	e := NewExporter(t.TempDir(), &logger)
	e.now = func() time.Time { return time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC) }
	return e
}

func TestBuild(t *testing.T) {
	e := newExporter(t)
	f, err := e.Build(sampleBookings())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, "SH1736935200000ABCD", rows[1][0])
	assert.Equal(t, "2025-01-20", rows[1][3])
	assert.Equal(t, "jane@example.com", rows[1][6])
	assert.Equal(t, "628", rows[1][9])
}

func TestBuild_Empty(t *testing.T) {
	e := newExporter(t)
	f, err := e.Build(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWrite(t *testing.T) {
	e := newExporter(t)
	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, sampleBookings()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(SheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Salon Services", v)
}

func TestSaveFile(t *testing.T) {
	e := newExporter(t)
	path, err := e.SaveFile(sampleBookings())
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, path, "bookings_20250115_103000.xlsx")
}
