package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"jamservices/internal/calendar"
	"jamservices/internal/models"
	"jamservices/internal/pricing"

	"github.com/go-chi/chi/v5"
)

type subcategoryView struct {
	models.Subcategory
	Fee        int64  `json:"fee"`
	Total      int64  `json:"total"`
	TotalLabel string `json:"total_label"`
}

type serviceView struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	PriceRangeLabel string            `json:"price_range"`
	Icon            string            `json:"icon,omitempty"`
	Subcategories   []subcategoryView `json:"subcategories"`
}

func newServiceView(svc models.Service) serviceView {
	view := serviceView{
		ID:              svc.ID,
		Name:            svc.Name,
		Description:     svc.Description,
		PriceRangeLabel: svc.PriceRangeLabel,
		Icon:            svc.Icon,
		Subcategories:   make([]subcategoryView, 0, len(svc.Subcategories)),
	}
	for _, sub := range svc.Subcategories {
		total := pricing.ComputeTotal(sub)
		view.Subcategories = append(view.Subcategories, subcategoryView{
			Subcategory: sub,
			Fee:         pricing.EffectiveFee(sub),
			Total:       total,
			TotalLabel:  pricing.FormatPrice(total),
		})
	}
	return view
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	services := s.deps.Sessions.Catalog().Services()
	out := make([]serviceView, 0, len(services))
	for _, svc := range services {
		out = append(out, newServiceView(svc))
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": out})
}

func (s *HTTPServer) handleService(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.deps.Sessions.Catalog().Service(chi.URLParam(r, "serviceID"))
	if !ok {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}
	writeJSON(w, http.StatusOK, newServiceView(svc))
}

func (s *HTTPServer) handleTimeSlots(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"time_slots": s.deps.Sessions.Catalog().TimeSlots()})
}

// handleCalendar renders one month of the date picker. year and month default
// to the current month; selected marks a day.
func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	now := s.deps.Sessions.Now().In(s.deps.Location)
	view := calendar.NewViewState(now)
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1 || year > 9999 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		view.Year = year
	}
	if raw := strings.TrimSpace(q.Get("month")); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "invalid month, expected 1-12")
			return
		}
		view.Month = time.Month(month)
	}

	var selected *time.Time
	if raw := strings.TrimSpace(q.Get("selected")); raw != "" {
		date, err := calendar.ParseDate(raw, s.deps.Location)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		selected = &date
	}

	writeJSON(w, http.StatusOK, calendar.BuildGrid(view, selected, now))
}
