package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_FindSubcategory(t *testing.T) {
	svc := Service{
		ID: "salon",
		Subcategories: []Subcategory{
			{ID: "haircut", Name: "Haircut & Styling", Price: 599, PlatformFee: 29},
			{ID: "facial", Name: "Facial & Cleanup", Price: 899, PlatformFee: 29},
		},
	}

	sub, ok := svc.FindSubcategory("facial")
	require.True(t, ok)
	assert.Equal(t, int64(899), sub.Price)

	_, ok = svc.FindSubcategory("deep")
	assert.False(t, ok)
}

func TestContactDetails_Trimmed(t *testing.T) {
	c := ContactDetails{Name: "  Jane Doe ", Email: "jane@example.com\n", Phone: " 9876543210", Address: "\t123 Main St "}
	got := c.Trimmed()
	assert.Equal(t, ContactDetails{Name: "Jane Doe", Email: "jane@example.com", Phone: "9876543210", Address: "123 Main St"}, got)
}

func TestBookingDraft_Clone(t *testing.T) {
	date := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	draft := NewBookingDraft("s1")
	draft.Service = &Service{ID: "salon", Subcategories: []Subcategory{{ID: "haircut"}}}
	draft.Subcategory = &Subcategory{ID: "haircut", Price: 599}
	draft.Date = &date
	draft.Contact = &ContactDetails{Name: "Jane"}

	cp := draft.Clone()
	cp.Subcategory.Price = 1
	cp.Service.Subcategories[0].ID = "changed"
	*cp.Date = cp.Date.AddDate(0, 0, 1)
	cp.Contact.Name = "Other"

	assert.Equal(t, int64(599), draft.Subcategory.Price)
	assert.Equal(t, "haircut", draft.Service.Subcategories[0].ID)
	assert.Equal(t, 5, draft.Date.Day())
	assert.Equal(t, "Jane", draft.Contact.Name)
}

func TestNewBookingDraft(t *testing.T) {
	draft := NewBookingDraft("abc")
	assert.Equal(t, "abc", draft.SessionID)
	assert.Equal(t, StepService, draft.Step)
	assert.Nil(t, draft.Subcategory)
	assert.False(t, draft.ReadyForPayment)
}
