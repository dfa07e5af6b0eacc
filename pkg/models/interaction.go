package models

import (
	"strconv"
	"time"
)

// InteractionType represents the kind of client-facing event.
type InteractionType string

const (
	InteractionEmail   InteractionType = "email"
	InteractionMeeting InteractionType = "meeting"
	InteractionCall    InteractionType = "call"
	InteractionNote    InteractionType = "note"
)

// InteractionTypes is the canonical list of interaction types.
var InteractionTypes = []InteractionType{
	InteractionEmail,
	InteractionMeeting,
	InteractionCall,
	InteractionNote,
}

// Valid reports whether the type is one of the known values.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionEmail, InteractionMeeting, InteractionCall, InteractionNote:
		return true
	}
	return false
}

// InteractionPriority is the canonical three-level priority scale.
//
// Historical data and list filters used a numeric 1-5 scale; the three-level
// enum is authoritative and numeric values are mapped on input via
// ParseInteractionPriority.
type InteractionPriority string

const (
	PriorityLow    InteractionPriority = "low"
	PriorityMedium InteractionPriority = "medium"
	PriorityHigh   InteractionPriority = "high"
)

// Valid reports whether the priority is one of the known values.
func (p InteractionPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Level returns the numeric representation of the priority (2, 3, or 4)
// for contexts that still speak the 1-5 scale.
func (p InteractionPriority) Level() int {
	switch p {
	case PriorityLow:
		return 2
	case PriorityMedium:
		return 3
	case PriorityHigh:
		return 4
	}
	return 0
}

// ParseInteractionPriority accepts both the canonical enum values and the
// legacy numeric 1-5 scale (1,2 -> low; 3 -> medium; 4,5 -> high).
// Returns false if the value maps to neither scale.
func ParseInteractionPriority(v string) (InteractionPriority, bool) {
	switch InteractionPriority(v) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return InteractionPriority(v), true
	}
	if n, err := strconv.Atoi(v); err == nil {
		switch {
		case n == 1 || n == 2:
			return PriorityLow, true
		case n == 3:
			return PriorityMedium, true
		case n == 4 || n == 5:
			return PriorityHigh, true
		}
	}
	return "", false
}

// Outcome represents the result of an interaction.
type Outcome string

const (
	OutcomePositive       Outcome = "positive"
	OutcomeNeutral        Outcome = "neutral"
	OutcomeNegative       Outcome = "negative"
	OutcomeFollowUpNeeded Outcome = "follow_up_needed"
	OutcomeNone           Outcome = ""
)

// Valid reports whether the outcome is one of the known values.
// The empty outcome is valid and means "not recorded".
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePositive, OutcomeNeutral, OutcomeNegative, OutcomeFollowUpNeeded, OutcomeNone:
		return true
	}
	return false
}

// Interaction limits enforced by validation.
const (
	MaxSubjectLen    = 200
	MaxContentLen    = 5000
	MaxDurationMin   = 1440
	MaxFollowUpNotes = 1000
)

// Interaction represents a single logged client-facing event.
type Interaction struct {
	ID               string              `json:"id"`
	ClientID         string              `json:"clientId"`
	Type             InteractionType     `json:"type"`
	Subject          string              `json:"subject"`
	Content          string              `json:"content,omitempty"`
	OccurredAt       time.Time           `json:"date"`
	DurationMinutes  int                 `json:"durationMinutes,omitempty"`
	Priority         InteractionPriority `json:"priority"`
	Outcome          Outcome             `json:"outcome"`
	FollowUpRequired bool                `json:"followUpRequired"`
	FollowUpAt       time.Time           `json:"followUpDate,omitempty"`
	FollowUpNotes    string              `json:"followUpNotes,omitempty"`
	Tags             JSONStringArray     `json:"tags,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// InteractionInput is the user-supplied portion of an interaction.
type InteractionInput struct {
	ClientID         string     `json:"clientId"`
	Type             string     `json:"type"`
	Subject          string     `json:"subject"`
	Content          string     `json:"content"`
	Date             *time.Time `json:"date"`
	DurationMinutes  *int       `json:"durationMinutes"`
	Priority         string     `json:"priority"`
	Outcome          string     `json:"outcome"`
	FollowUpRequired bool       `json:"followUpRequired"`
	FollowUpDate     *time.Time `json:"followUpDate"`
	FollowUpNotes    string     `json:"followUpNotes"`
	Tags             []string   `json:"tags"`
}
