package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"jamservices/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet bookings are written to.
const SheetName = "Bookings"

// Headers of the bookings sheet, in column order.
var Headers = []string{
	"Booking ID", "Service", "Subcategory", "Date", "Time",
	"Customer", "Email", "Phone", "Address", "Amount", "Status", "Booked At",
}

// Exporter renders booking history into xlsx workbooks.
type Exporter struct {
	dir    string
	logger *zerolog.Logger
	now    func() time.Time
}

func NewExporter(dir string, logger *zerolog.Logger) *Exporter {
	return &Exporter{dir: dir, logger: logger, now: time.Now}
}

// Build lays the bookings out one per row under a bold header row. The caller
// closes the returned file.
func (e *Exporter) Build(bookings []*models.ConfirmedBooking) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
		_ = f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := []interface{}{
			b.ID,
			b.ServiceName,
			b.SubcategoryName,
			b.Date.Format(models.DateLayout),
			b.Time,
			b.Customer.Name,
			b.Customer.Email,
			b.Customer.Phone,
			b.Customer.Address,
			b.AmountPaid,
			b.Status,
			b.CreatedAt.Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 24)
	_ = f.SetColWidth(SheetName, "B", "I", 20)
	_ = f.SetColWidth(SheetName, "J", "L", 14)
	if len(bookings) > 0 {
		_ = f.AutoFilter(SheetName, fmt.Sprintf("A1:L%d", len(bookings)+1), nil)
	}
	return f, nil
}

// Write streams the workbook to w.
func (e *Exporter) Write(w io.Writer, bookings []*models.ConfirmedBooking) error {
	f, err := e.Build(bookings)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// SaveFile writes the workbook into the export directory and returns its path.
func (e *Exporter) SaveFile(bookings []*models.ConfirmedBooking) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f, err := e.Build(bookings)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(e.dir, FileName(e.now()))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", path).Int("rows", len(bookings)).Msg("bookings exported")
	return path, nil
}

// FileName is the download name of an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", t.Format("20060102_150405"))
}
