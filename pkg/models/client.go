// Package models contains domain models for clientpulse.
package models

import (
	"strings"
	"time"
)

// ClientStatus represents the lifecycle state of a client.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusProspect ClientStatus = "prospect"
	ClientStatusFormer   ClientStatus = "former"
)

// ClientStatuses is the canonical list of client statuses.
// Used by both the backend and served to frontends.
var ClientStatuses = []ClientStatus{
	ClientStatusActive,
	ClientStatusInactive,
	ClientStatusProspect,
	ClientStatusFormer,
}

// Valid reports whether the status is one of the known values.
func (s ClientStatus) Valid() bool {
	switch s {
	case ClientStatusActive, ClientStatusInactive, ClientStatusProspect, ClientStatusFormer:
		return true
	}
	return false
}

// BaseScore returns the engagement base score contribution for the status.
func (s ClientStatus) BaseScore() int {
	switch s {
	case ClientStatusActive:
		return 20
	case ClientStatusProspect:
		return 10
	case ClientStatusInactive:
		return 5
	default: // former, unknown
		return 0
	}
}

// ClientPriority represents how important a client relationship is.
type ClientPriority string

const (
	ClientPriorityLow      ClientPriority = "low"
	ClientPriorityMedium   ClientPriority = "medium"
	ClientPriorityHigh     ClientPriority = "high"
	ClientPriorityCritical ClientPriority = "critical"
)

// Valid reports whether the priority is one of the known values.
func (p ClientPriority) Valid() bool {
	switch p {
	case ClientPriorityLow, ClientPriorityMedium, ClientPriorityHigh, ClientPriorityCritical:
		return true
	}
	return false
}

// Client represents a CRM client record.
//
// EngagementScore and LastContactAt are derived fields owned by the scoring
// recomputer. They are never written from user input.
type Client struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Company         string          `json:"company"`
	Phone           string          `json:"phone,omitempty"`
	Status          ClientStatus    `json:"status"`
	Priority        ClientPriority  `json:"priority"`
	Tags            JSONStringArray `json:"tags,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	EngagementScore int             `json:"engagementScore"`
	LastContactAt   time.Time       `json:"lastContactAt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ClientInput is the user-supplied portion of a client record.
type ClientInput struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Company  string   `json:"company"`
	Phone    string   `json:"phone"`
	Status   string   `json:"status"`
	Priority string   `json:"priority"`
	Tags     []string `json:"tags"`
	Notes    string   `json:"notes"`
}

// NormalizeEmail lowercases and trims an email for case-insensitive uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeTags trims, lowercases, and deduplicates tags, preserving first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
