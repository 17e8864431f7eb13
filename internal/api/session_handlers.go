package api

import (
	"net/http"
	"strings"

	"jamservices/internal/booking"
	"jamservices/internal/calendar"
	"jamservices/internal/models"
	"jamservices/internal/payment"
	"jamservices/internal/validation"

	"github.com/go-chi/chi/v5"
)

// sessionResponse is the draft plus its order summary. Applied is set by
// selection calls: false means the wizard ignored the input.
type sessionResponse struct {
	Session *models.BookingDraft `json:"session"`
	Summary *models.OrderSummary `json:"summary,omitempty"`
	Applied *bool                `json:"applied,omitempty"`
}

type selectServiceRequest struct {
	ServiceID string `json:"service_id"`
}

type selectSubcategoryRequest struct {
	SubcategoryID string `json:"subcategory_id"`
}

type selectDateRequest struct {
	Date string `json:"date"`
}

type selectTimeRequest struct {
	Time string `json:"time"`
}

type validateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type validateFieldResponse struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func (s *HTTPServer) writeSession(w http.ResponseWriter, status int, draft *models.BookingDraft, applied *bool) {
	writeJSON(w, status, sessionResponse{
		Session: draft,
		Summary: booking.NewWizard(s.deps.Sessions.Catalog(), draft).Summary(),
		Applied: applied,
	})
}

func (s *HTTPServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	draft, err := s.deps.Sessions.Start(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeSession(w, http.StatusCreated, draft, nil)
}

func (s *HTTPServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	draft, err := s.deps.Sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeSession(w, http.StatusOK, draft, nil)
}

func (s *HTTPServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Reset(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applySelection runs a wizard selection that may be ignored and reports
// whether it took effect.
func (s *HTTPServer) applySelection(w http.ResponseWriter, r *http.Request, sel func(*booking.Wizard) bool) {
	var applied bool
	draft, err := s.deps.Sessions.Apply(r.Context(), chi.URLParam(r, "sessionID"), func(wz *booking.Wizard) error {
		applied = sel(wz)
		return nil
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeSession(w, http.StatusOK, draft, &applied)
}

func (s *HTTPServer) handleSelectService(w http.ResponseWriter, r *http.Request) {
	var req selectServiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.applySelection(w, r, func(wz *booking.Wizard) bool {
		return wz.SelectService(strings.TrimSpace(req.ServiceID))
	})
}

func (s *HTTPServer) handleSelectSubcategory(w http.ResponseWriter, r *http.Request) {
	var req selectSubcategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.applySelection(w, r, func(wz *booking.Wizard) bool {
		return wz.SelectSubcategory(strings.TrimSpace(req.SubcategoryID))
	})
}

func (s *HTTPServer) handleSelectDate(w http.ResponseWriter, r *http.Request) {
	var req selectDateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := calendar.ParseDate(strings.TrimSpace(req.Date), s.deps.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.applySelection(w, r, func(wz *booking.Wizard) bool {
		return wz.SelectDate(date)
	})
}

func (s *HTTPServer) handleSelectTime(w http.ResponseWriter, r *http.Request) {
	var req selectTimeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.applySelection(w, r, func(wz *booking.Wizard) bool {
		return wz.SelectTime(strings.TrimSpace(req.Time))
	})
}

func (s *HTTPServer) handleAdvance(w http.ResponseWriter, r *http.Request) {
	draft, err := s.deps.Sessions.Apply(r.Context(), chi.URLParam(r, "sessionID"), func(wz *booking.Wizard) error {
		return wz.Advance()
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeSession(w, http.StatusOK, draft, nil)
}

func (s *HTTPServer) handleRetreat(w http.ResponseWriter, r *http.Request) {
	s.applySelection(w, r, func(wz *booking.Wizard) bool {
		return wz.Retreat()
	})
}

func (s *HTTPServer) handleDetails(w http.ResponseWriter, r *http.Request) {
	var req models.ContactDetails
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft, err := s.deps.Sessions.Apply(r.Context(), chi.URLParam(r, "sessionID"), func(wz *booking.Wizard) error {
		return wz.FinalizeDetails(req)
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeSession(w, http.StatusOK, draft, nil)
}

// handleValidateField is the on-blur check of one contact field.
func (s *HTTPServer) handleValidateField(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deps.Sessions.Get(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req validateFieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	field := validation.NormalizeField(req.Field)
	if field == "" {
		field = strings.TrimSpace(req.Field)
	}
	msg := validation.ValidateField(req.Field, req.Value)
	writeJSON(w, http.StatusOK, validateFieldResponse{Field: field, Valid: msg == "", Message: msg})
}

func (s *HTTPServer) handlePayment(w http.ResponseWriter, r *http.Request) {
	var card payment.Card
	if err := decodeJSON(w, r, &card); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	confirmed, err := s.deps.Checkout.Pay(r.Context(), sessionID, card, func(stage string) {
		s.logger.Debug().Str("session_id", sessionID).Str("stage", stage).Msg("payment in progress")
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, confirmed)
}
