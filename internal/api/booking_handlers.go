package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"jamservices/internal/export"
	"jamservices/internal/models"

	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *HTTPServer) listBookings(r *http.Request) ([]*models.ConfirmedBooking, error) {
	q := r.URL.Query()
	if email := strings.TrimSpace(q.Get("email")); email != "" {
		return s.deps.History.ListByEmail(r.Context(), email)
	}

	limit := 0
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errInvalidLimit
		}
		limit = n
	}
	return s.deps.History.List(r.Context(), limit)
}

var errInvalidLimit = errors.New("invalid limit")

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.listBookings(r)
	if errors.Is(err, errInvalidLimit) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []*models.ConfirmedBooking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings, "count": len(bookings)})
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := s.deps.History.Get(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleExport streams the history as an xlsx workbook. It takes the same
// filters as the list endpoint.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Exporter == nil {
		writeError(w, http.StatusNotImplemented, "export is not configured")
		return
	}

	bookings, err := s.listBookings(r)
	if errors.Is(err, errInvalidLimit) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.FileName(s.deps.Sessions.Now())))
	w.WriteHeader(http.StatusOK)
	if err := s.deps.Exporter.Write(w, bookings); err != nil {
		s.logger.Error().Err(err).Msg("failed to stream export")
	}
}
