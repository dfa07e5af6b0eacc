package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	db "github.com/clientpulse/clientpulse/internal/db/gorm"
	"github.com/clientpulse/clientpulse/pkg/models"
)

// ClientListResponse is the paginated client list payload.
type ClientListResponse struct {
	Clients []*models.Client `json:"clients"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// handleCreateClient handles POST /api/clients.
func (s *Service) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var in models.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if errs := models.ValidateClientInput(&in); errs != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, errs)
		return
	}

	client, err := s.clients.Create(r.Context(), &in)
	if err != nil {
		writeStoreError(w, err, "client_create")
		return
	}
	writeData(w, http.StatusCreated, client)
}

// handleListClients handles GET /api/clients.
func (s *Service) handleListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var errs models.ValidationErrors
	params := db.ClientListParams{
		Page:   parseIntDefault(q.Get("page"), 1),
		Limit:  parseIntDefault(q.Get("limit"), 20),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}
	if v := q.Get("status"); v != "" {
		status := models.ClientStatus(v)
		if !status.Valid() {
			errs = append(errs, models.FieldError{Field: "status", Message: "unknown status"})
		}
		params.Status = status
	}
	if v := q.Get("priority"); v != "" {
		priority := models.ClientPriority(v)
		if !priority.Valid() {
			errs = append(errs, models.FieldError{Field: "priority", Message: "unknown priority"})
		}
		params.Priority = priority
	}
	if errs != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, errs)
		return
	}

	clients, total, err := s.clients.List(r.Context(), params)
	if err != nil {
		writeStoreError(w, err, "client_list")
		return
	}
	writeData(w, http.StatusOK, ClientListResponse{
		Clients: clients,
		Total:   total,
		Page:    params.Page,
		Limit:   params.Limit,
	})
}

// handleGetClient handles GET /api/clients/{id}.
func (s *Service) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.clients.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "client_get")
		return
	}
	writeData(w, http.StatusOK, client)
}

// handleUpdateClient handles PUT /api/clients/{id}.
func (s *Service) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var in models.ClientInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if errs := models.ValidateClientInput(&in); errs != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, errs)
		return
	}

	client, err := s.clients.Update(r.Context(), chi.URLParam(r, "id"), &in)
	if err != nil {
		writeStoreError(w, err, "client_update")
		return
	}
	writeData(w, http.StatusOK, client)
}

// handleDeleteClient handles DELETE /api/clients/{id}.
func (s *Service) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.clients.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "client_delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseIntDefault parses a positive integer query value, falling back to def.
func parseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
