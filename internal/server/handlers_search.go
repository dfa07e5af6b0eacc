package server

import (
	"net/http"

	"github.com/clientpulse/clientpulse/internal/search"
	"github.com/clientpulse/clientpulse/pkg/models"
)

// handleSearch handles GET /api/search.
// Query parameters: q (free text), type, status, dateFrom, dateTo, tags
// (comma-separated, any-overlap).
func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var errs models.ValidationErrors
	filters := search.Filters{
		Tags: search.ParseTags(q.Get("tags")),
	}
	if v := q.Get("type"); v != "" {
		typ := models.InteractionType(v)
		if !typ.Valid() {
			errs = append(errs, models.FieldError{Field: "type", Message: "unknown type"})
		}
		filters.Type = typ
	}
	if v := q.Get("status"); v != "" {
		status := models.ClientStatus(v)
		if !status.Valid() {
			errs = append(errs, models.FieldError{Field: "status", Message: "unknown status"})
		}
		filters.Status = status
	}
	if v := q.Get("dateFrom"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			errs = append(errs, models.FieldError{Field: "dateFrom", Message: "invalid date"})
		}
		filters.DateFrom = t
	}
	if v := q.Get("dateTo"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			errs = append(errs, models.FieldError{Field: "dateTo", Message: "invalid date"})
		}
		filters.DateTo = t
	}
	if errs != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, errs)
		return
	}

	result, err := s.searcher.Search(r.Context(), q.Get("q"), filters)
	if err != nil {
		writeStoreError(w, err, "search")
		return
	}
	writeData(w, http.StatusOK, result)
}
