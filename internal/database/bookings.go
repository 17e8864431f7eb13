package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jamservices/internal/models"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrDuplicateBooking = errors.New("booking id already exists")
)

// createdAtLayout is fixed width so text order matches time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

const bookingColumns = `id, session_id, service_name, subcategory_name, booking_date, time_slot,
        customer_name, customer_email, customer_phone, customer_address, amount, status, created_at`

// CreateBooking inserts a confirmed booking. Bookings are never updated.
func (db *DB) CreateBooking(ctx context.Context, booking *models.ConfirmedBooking) error {
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	if booking.Status == "" {
		booking.Status = models.StatusConfirmed
	}

	query := `INSERT INTO confirmed_bookings (` + bookingColumns + `)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		booking.ID,
		booking.SessionID,
		booking.ServiceName,
		booking.SubcategoryName,
		booking.Date.Format(models.DateLayout),
		booking.Time,
		booking.Customer.Name,
		booking.Customer.Email,
		booking.Customer.Phone,
		booking.Customer.Address,
		booking.AmountPaid,
		booking.Status,
		booking.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %s", ErrDuplicateBooking, booking.ID)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	db.logger.Debug().Str("booking_id", booking.ID).Msg("Booking stored")
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.ConfirmedBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM confirmed_bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// ListBookings returns the newest bookings first.
func (db *DB) ListBookings(ctx context.Context, limit int) ([]*models.ConfirmedBooking, error) {
	if limit <= 0 {
		limit = models.DefaultHistoryLimit
	}
	query := `SELECT ` + bookingColumns + ` FROM confirmed_bookings ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return collectBookings(rows)
}

// ListBookingsByEmail matches the customer email case-insensitively.
func (db *DB) ListBookingsByEmail(ctx context.Context, email string) ([]*models.ConfirmedBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM confirmed_bookings
            WHERE lower(customer_email) = ? ORDER BY created_at DESC, id DESC`
	rows, err := db.QueryContext(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by email: %w", err)
	}
	return collectBookings(rows)
}

// CountBookings returns the number of stored bookings.
func (db *DB) CountBookings(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM confirmed_bookings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.ConfirmedBooking, error) {
	var (
		b         models.ConfirmedBooking
		sessionID sql.NullString
		date      string
		createdAt string
	)
	err := row.Scan(
		&b.ID,
		&sessionID,
		&b.ServiceName,
		&b.SubcategoryName,
		&date,
		&b.Time,
		&b.Customer.Name,
		&b.Customer.Email,
		&b.Customer.Phone,
		&b.Customer.Address,
		&b.AmountPaid,
		&b.Status,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	b.SessionID = sessionID.String
	if b.Date, err = time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid booking date %q: %w", date, err)
	}
	if b.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]*models.ConfirmedBooking, error) {
	defer rows.Close()

	var bookings []*models.ConfirmedBooking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}
