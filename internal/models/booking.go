package models

import (
	"strings"
	"time"
)

// ContactDetails is the step 4 form.
type ContactDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (c ContactDetails) Trimmed() ContactDetails {
	return ContactDetails{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

// BookingDraft is the in-progress selection of one wizard session.
type BookingDraft struct {
	SessionID       string          `json:"session_id"`
	Step            int             `json:"step"`
	Service         *Service        `json:"service,omitempty"`
	Subcategory     *Subcategory    `json:"subcategory,omitempty"`
	Date            *time.Time      `json:"date,omitempty"`
	Time            string          `json:"time,omitempty"`
	Contact         *ContactDetails `json:"contact,omitempty"`
	ReadyForPayment bool            `json:"ready_for_payment"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewBookingDraft returns an empty draft at the first step.
func NewBookingDraft(sessionID string) *BookingDraft {
	return &BookingDraft{SessionID: sessionID, Step: FirstStep}
}

// Clone returns a deep copy so callers can not mutate the wizard's draft.
func (d *BookingDraft) Clone() BookingDraft {
	out := *d
	if d.Service != nil {
		svc := *d.Service
		svc.Subcategories = append([]Subcategory(nil), d.Service.Subcategories...)
		out.Service = &svc
	}
	if d.Subcategory != nil {
		sub := *d.Subcategory
		out.Subcategory = &sub
	}
	if d.Date != nil {
		date := *d.Date
		out.Date = &date
	}
	if d.Contact != nil {
		contact := *d.Contact
		out.Contact = &contact
	}
	return out
}

// OrderSummary is the pricing panel shown beside the wizard.
type OrderSummary struct {
	ServiceName     string     `json:"service_name,omitempty"`
	SubcategoryName string     `json:"subcategory_name"`
	Price           int64      `json:"price"`
	PlatformFee     int64      `json:"platform_fee"`
	Total           int64      `json:"total"`
	Date            *time.Time `json:"date,omitempty"`
	Time            string     `json:"time,omitempty"`
}

// ConfirmedBooking is created once, on a successful payment, and never changed.
type ConfirmedBooking struct {
	ID              string         `json:"id"`
	SessionID       string         `json:"session_id,omitempty"`
	ServiceName     string         `json:"service"`
	SubcategoryName string         `json:"subcategory"`
	Date            time.Time      `json:"date"`
	Time            string         `json:"time"`
	Customer        ContactDetails `json:"customer"`
	AmountPaid      int64          `json:"amount"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}
