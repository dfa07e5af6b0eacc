// Package search provides global search across clients and interactions.
package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clientpulse/clientpulse/pkg/models"
)

// Search configuration constants.
const (
	// MinQueryLen is the minimum trimmed query length. Shorter queries
	// short-circuit to an empty result without touching the stores.
	MinQueryLen = 2

	// ClientResultLimit caps the number of clients returned.
	ClientResultLimit = 20

	// InteractionResultLimit caps the number of interactions returned.
	InteractionResultLimit = 30

	// candidateFetchLimit bounds how many candidates are pulled from each
	// store before exact predicate matching and capping.
	candidateFetchLimit = 200
)

// Filters narrows a search beyond the free-text query.
// Status applies to clients only; Type and the date range apply to
// interactions only; Tags applies to both entity types independently.
type Filters struct {
	Type     models.InteractionType
	Status   models.ClientStatus
	DateFrom time.Time
	DateTo   time.Time
	Tags     []string
}

// Result is a merged search result across both entity types.
//
// TotalResults counts the returned, capped sets - not the true number of
// matches in the store. The name is kept for wire compatibility.
type Result struct {
	Clients      []*models.Client      `json:"clients"`
	Interactions []*models.Interaction `json:"interactions"`
	TotalResults int                   `json:"totalResults"`
}

// ClientSource supplies client candidates for a text query.
// Implementations may over-fetch; the manager applies the exact predicate.
type ClientSource interface {
	SearchClients(ctx context.Context, query string, status models.ClientStatus, limit int) ([]*models.Client, error)
}

// InteractionSource supplies interaction candidates for a text query.
type InteractionSource interface {
	SearchInteractions(ctx context.Context, query string, typ models.InteractionType, from, to time.Time, limit int) ([]*models.Interaction, error)
}

// Manager executes global searches by fetching candidates from both stores
// in parallel and applying the exact match predicate in memory.
type Manager struct {
	clients      ClientSource
	interactions InteractionSource
}

// NewManager creates a new search manager.
func NewManager(clients ClientSource, interactions InteractionSource) *Manager {
	return &Manager{clients: clients, interactions: interactions}
}

// Search runs a global search for the trimmed free-text query plus filters.
func (m *Manager) Search(ctx context.Context, query string, filters Filters) (*Result, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLen {
		return &Result{Clients: []*models.Client{}, Interactions: []*models.Interaction{}}, nil
	}

	var (
		clients      []*models.Client
		interactions []*models.Interaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := m.clients.SearchClients(gctx, query, filters.Status, candidateFetchLimit)
		if err != nil {
			return err
		}
		clients = found
		return nil
	})
	g.Go(func() error {
		found, err := m.interactions.SearchInteractions(gctx, query, filters.Type, filters.DateFrom, endOfDay(filters.DateTo), candidateFetchLimit)
		if err != nil {
			return err
		}
		interactions = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matchedClients := make([]*models.Client, 0, len(clients))
	for _, c := range clients {
		if MatchClient(c, query, filters) {
			matchedClients = append(matchedClients, c)
		}
	}
	sort.SliceStable(matchedClients, func(i, j int) bool {
		return matchedClients[i].UpdatedAt.After(matchedClients[j].UpdatedAt)
	})
	if len(matchedClients) > ClientResultLimit {
		matchedClients = matchedClients[:ClientResultLimit]
	}

	matchedInteractions := make([]*models.Interaction, 0, len(interactions))
	for _, in := range interactions {
		if MatchInteraction(in, query, filters) {
			matchedInteractions = append(matchedInteractions, in)
		}
	}
	sort.SliceStable(matchedInteractions, func(i, j int) bool {
		return matchedInteractions[i].OccurredAt.After(matchedInteractions[j].OccurredAt)
	})
	if len(matchedInteractions) > InteractionResultLimit {
		matchedInteractions = matchedInteractions[:InteractionResultLimit]
	}

	return &Result{
		Clients:      matchedClients,
		Interactions: matchedInteractions,
		TotalResults: len(matchedClients) + len(matchedInteractions),
	}, nil
}

// MatchClient reports whether a client matches the query and filters.
// Text match is a case-insensitive substring test against name, email,
// company, and notes.
func MatchClient(c *models.Client, query string, filters Filters) bool {
	if filters.Status != "" && c.Status != filters.Status {
		return false
	}
	if len(filters.Tags) > 0 && !anyTagOverlap(c.Tags, filters.Tags) {
		return false
	}
	return containsFold(query, c.Name, c.Email, c.Company, c.Notes)
}

// MatchInteraction reports whether an interaction matches the query and
// filters. Text match covers subject, content, and follow-up notes. The date
// range is inclusive; callers extend DateTo to end-of-day before matching.
func MatchInteraction(in *models.Interaction, query string, filters Filters) bool {
	if filters.Type != "" && in.Type != filters.Type {
		return false
	}
	if !filters.DateFrom.IsZero() && in.OccurredAt.Before(filters.DateFrom) {
		return false
	}
	if !filters.DateTo.IsZero() && in.OccurredAt.After(endOfDay(filters.DateTo)) {
		return false
	}
	if len(filters.Tags) > 0 && !anyTagOverlap(in.Tags, filters.Tags) {
		return false
	}
	return containsFold(query, in.Subject, in.Content, in.FollowUpNotes)
}

// ParseTags splits a comma-separated tag list, normalizing each entry.
func ParseTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return models.NormalizeTags(strings.Split(csv, ","))
}

// containsFold reports whether any field contains the query, ignoring case.
func containsFold(query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// anyTagOverlap reports whether the two tag sets intersect.
func anyTagOverlap(have models.JSONStringArray, want []string) bool {
	for _, w := range want {
		if have.Contains(w) {
			return true
		}
	}
	return false
}

// endOfDay extends a date to the last instant of its UTC calendar day.
// Zero times pass through unchanged.
func endOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
