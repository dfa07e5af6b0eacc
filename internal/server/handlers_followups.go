package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clientpulse/clientpulse/pkg/models"
)

// FollowUpListResponse is the follow-up list payload.
type FollowUpListResponse struct {
	FollowUps []*models.Interaction `json:"followUps"`
	Total     int                   `json:"total"`
}

// CompleteFollowUpRequest is the body for completing a follow-up.
type CompleteFollowUpRequest struct {
	Outcome string `json:"outcome"`
	Notes   string `json:"notes"`
}

// handleListFollowUps handles GET /api/followups.
// The due parameter accepts "overdue", "today", or an explicit date; when
// absent, every pending follow-up is returned soonest first.
func (s *Service) handleListFollowUps(w http.ResponseWriter, r *http.Request) {
	var dueBefore time.Time
	switch due := r.URL.Query().Get("due"); due {
	case "":
	case "overdue":
		dueBefore = time.Now()
	case "today":
		now := time.Now().UTC()
		dueBefore = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	default:
		parsed, err := parseDate(due)
		if err != nil {
			writeFieldErrors(w, http.StatusUnprocessableEntity, models.ValidationErrors{
				{Field: "due", Message: "due must be overdue, today, or a date"},
			})
			return
		}
		dueBefore = parsed
	}

	followUps, err := s.interactions.ListFollowUps(r.Context(), dueBefore)
	if err != nil {
		writeStoreError(w, err, "followup_list")
		return
	}
	writeData(w, http.StatusOK, FollowUpListResponse{
		FollowUps: followUps,
		Total:     len(followUps),
	})
}

// handleCompleteFollowUp handles POST /api/interactions/{id}/complete-followup.
// Completing resolves the pending follow-up with a terminal outcome and
// refreshes the client's score.
func (s *Service) handleCompleteFollowUp(w http.ResponseWriter, r *http.Request) {
	var req CompleteFollowUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	outcome := models.Outcome(req.Outcome)
	if outcome != models.OutcomePositive && outcome != models.OutcomeNeutral && outcome != models.OutcomeNegative {
		writeFieldErrors(w, http.StatusUnprocessableEntity, models.ValidationErrors{
			{Field: "outcome", Message: "outcome must be positive, neutral, or negative"},
		})
		return
	}
	if len(req.Notes) > models.MaxFollowUpNotes {
		writeFieldErrors(w, http.StatusUnprocessableEntity, models.ValidationErrors{
			{Field: "notes", Message: "notes too long"},
		})
		return
	}

	interaction, err := s.interactions.CompleteFollowUp(r.Context(), chi.URLParam(r, "id"), outcome, req.Notes)
	if err != nil {
		writeStoreError(w, err, "followup_complete")
		return
	}

	s.scores.Enqueue(interaction.ClientID)
	writeData(w, http.StatusOK, interaction)
}

// parseDate parses a timestamp or bare date, both treated as UTC.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}
