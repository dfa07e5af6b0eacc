package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	db "github.com/clientpulse/clientpulse/internal/db/gorm"
	"github.com/clientpulse/clientpulse/pkg/models"
)

// InteractionListResponse is the paginated interaction list payload.
type InteractionListResponse struct {
	Interactions []*models.Interaction `json:"interactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

// interactionFromInput converts validated input into a domain interaction.
// occurredAt is the fallback when the input carries no date. Validation has
// already run, so the priority parse cannot fail here.
func interactionFromInput(in *models.InteractionInput, occurredAt time.Time) *models.Interaction {
	out := &models.Interaction{
		ClientID:         strings.TrimSpace(in.ClientID),
		Type:             models.InteractionType(in.Type),
		Subject:          strings.TrimSpace(in.Subject),
		Content:          in.Content,
		OccurredAt:       occurredAt,
		Priority:         models.PriorityMedium,
		Outcome:          models.Outcome(in.Outcome),
		FollowUpRequired: in.FollowUpRequired,
		FollowUpNotes:    in.FollowUpNotes,
		Tags:             models.NormalizeTags(in.Tags),
	}
	if in.Date != nil {
		out.OccurredAt = *in.Date
	}
	if in.DurationMinutes != nil {
		out.DurationMinutes = *in.DurationMinutes
	}
	if in.Priority != "" {
		if p, ok := models.ParseInteractionPriority(in.Priority); ok {
			out.Priority = p
		}
	}
	if in.FollowUpDate != nil {
		out.FollowUpAt = *in.FollowUpDate
	}
	return out
}

// handleCreateInteraction handles POST /api/interactions.
// A successful create enqueues a score recompute for the owning client;
// the response never waits on it.
func (s *Service) handleCreateInteraction(w http.ResponseWriter, r *http.Request) {
	var in models.InteractionInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if errs := models.ValidateInteractionInput(&in, time.Now()); errs != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, errs)
		return
	}

	created, err := s.interactions.Create(r.Context(), interactionFromInput(&in, time.Now()))
	if err != nil {
		writeStoreError(w, err, "interaction_create")
		return
	}

	s.scores.Enqueue(created.ClientID)
	writeData(w, http.StatusCreated, created)
}

// handleListInteractions handles GET /api/interactions.
func (s *Service) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var errs models.ValidationErrors
	params := db.InteractionListParams{
		Page:     parseIntDefault(q.Get("page"), 1),
		Limit:    parseIntDefault(q.Get("limit"), 20),
		ClientID: q.Get("client_id"),
	}
	if v := q.Get("type"); v != "" {
		typ := models.InteractionType(v)
		if !typ.Valid() {
			errs = append(errs, models.FieldError{Field: "type", Message: "unknown type"})
		}
		params.Type = typ
	}
	if v := q.Get("outcome"); v != "" {
		outcome := models.Outcome(v)
		if !outcome.Valid() {
			errs = append(errs, models.FieldError{Field: "outcome", Message: "unknown outcome"})
		}
		params.Outcome = &outcome
	}
	if v := q.Get("priority"); v != "" {
		p, ok := models.ParseInteractionPriority(v)
		if !ok {
			errs = append(errs, models.FieldError{Field: "priority", Message: "priority must be low, medium, high, or 1-5"})
		}
		params.Priority = p
	}
	if errs != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, errs)
		return
	}

	interactions, total, err := s.interactions.List(r.Context(), params)
	if err != nil {
		writeStoreError(w, err, "interaction_list")
		return
	}
	writeData(w, http.StatusOK, InteractionListResponse{
		Interactions: interactions,
		Total:        total,
		Page:         params.Page,
		Limit:        params.Limit,
	})
}

// handleGetInteraction handles GET /api/interactions/{id}.
func (s *Service) handleGetInteraction(w http.ResponseWriter, r *http.Request) {
	interaction, err := s.interactions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "interaction_get")
		return
	}
	writeData(w, http.StatusOK, interaction)
}

// handleUpdateInteraction handles PUT /api/interactions/{id}.
// The owning client is fixed at creation; clientId in the body is ignored.
func (s *Service) handleUpdateInteraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.interactions.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "interaction_update")
		return
	}

	var in models.InteractionInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.ClientID = existing.ClientID

	if errs := models.ValidateInteractionInput(&in, time.Now()); errs != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, errs)
		return
	}

	// A body without a date keeps the stored occurrence time.
	updated, err := s.interactions.Update(r.Context(), id, interactionFromInput(&in, existing.OccurredAt))
	if err != nil {
		writeStoreError(w, err, "interaction_update")
		return
	}

	s.scores.Enqueue(existing.ClientID)
	writeData(w, http.StatusOK, updated)
}

// handleDeleteInteraction handles DELETE /api/interactions/{id}.
// Deletes recompute the owning client's score too: removing an interaction
// changes the inputs just as much as adding one.
func (s *Service) handleDeleteInteraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.interactions.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "interaction_delete")
		return
	}

	if err := s.interactions.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "interaction_delete")
		return
	}

	s.scores.Enqueue(existing.ClientID)
	w.WriteHeader(http.StatusNoContent)
}
