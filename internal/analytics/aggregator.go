// Package analytics produces dashboard-ready aggregates over clients and
// interactions. All operations are read-only and idempotent: the same inputs
// always yield the same output, and empty inputs yield zero-valued aggregates.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/clientpulse/clientpulse/pkg/models"
)

// DefaultWindowDays is the aggregation window used when none is requested.
const DefaultWindowDays = 30

// Overview contains headline dashboard metrics for a trailing window.
type Overview struct {
	TotalClients         int     `json:"totalClients"`
	NewClients           int     `json:"newClients"`
	TotalInteractions    int     `json:"totalInteractions"`
	InteractionsInWindow int     `json:"interactionsInWindow"`
	FollowUpsDue         int     `json:"followUpsDue"`
	OverdueFollowUps     int     `json:"overdueFollowUps"`
	ClientGrowthPct      float64 `json:"clientGrowthPct"`
	InteractionGrowthPct float64 `json:"interactionGrowthPct"`
}

// TimePoint is one calendar-day bucket in a time series.
type TimePoint struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Count int    `json:"count"`
}

// TypeBreakdown contains per-interaction-type counts for the window.
type TypeBreakdown struct {
	Type         models.InteractionType `json:"type"`
	Count        int                    `json:"count"`
	SuccessCount int                    `json:"successCount"`
}

// TopClient is one entry in the top-clients ranking.
type TopClient struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Company         string    `json:"company"`
	EngagementScore int       `json:"engagementScore"`
	LastContactAt   time.Time `json:"lastContactAt"`
}

// ScoreBucket is one engagement-distribution bucket.
type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Dashboard bundles every aggregate for a single dashboard call.
type Dashboard struct {
	Overview     Overview        `json:"overview"`
	TimeSeries   []TimePoint     `json:"timeSeries"`
	Types        []TypeBreakdown `json:"types"`
	TopClients   []TopClient     `json:"topClients"`
	Distribution []ScoreBucket   `json:"distribution"`
}

// Aggregator computes aggregates from full client/interaction collections.
// It holds no state; inputs are supplied per call.
type Aggregator struct{}

// NewAggregator creates a new analytics aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// BuildOverview computes the overview metrics for the trailing windowDays
// window ending at now. Growth rates compare the window against the prior
// equal-length window.
func (a *Aggregator) BuildOverview(clients []*models.Client, interactions []*models.Interaction, windowDays int, now time.Time) Overview {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	windowStart := now.AddDate(0, 0, -windowDays)
	priorStart := windowStart.AddDate(0, 0, -windowDays)

	ov := Overview{
		TotalClients:      len(clients),
		TotalInteractions: len(interactions),
	}

	var priorClients int
	for _, c := range clients {
		switch {
		case !c.CreatedAt.Before(windowStart):
			ov.NewClients++
		case !c.CreatedAt.Before(priorStart):
			priorClients++
		}
	}

	var priorInteractions int
	for _, in := range interactions {
		switch {
		case in.OccurredAt.IsZero():
			// Corrupt dates are excluded from windowed counts.
		case !in.OccurredAt.Before(windowStart) && !in.OccurredAt.After(now):
			ov.InteractionsInWindow++
		case !in.OccurredAt.Before(priorStart) && in.OccurredAt.Before(windowStart):
			priorInteractions++
		}

		if followUpPending(in) {
			if !in.FollowUpAt.After(now) {
				ov.FollowUpsDue++
			}
			if in.FollowUpAt.Before(now) {
				ov.OverdueFollowUps++
			}
		}
	}

	ov.ClientGrowthPct = growthPct(ov.NewClients, priorClients)
	ov.InteractionGrowthPct = growthPct(ov.InteractionsInWindow, priorInteractions)
	return ov
}

// followUpPending reports whether an interaction carries an unresolved
// follow-up obligation. A terminal outcome (positive or negative) resolves
// the obligation even if the flag was never cleared.
func followUpPending(in *models.Interaction) bool {
	if !in.FollowUpRequired || in.FollowUpAt.IsZero() {
		return false
	}
	return in.Outcome != models.OutcomePositive && in.Outcome != models.OutcomeNegative
}

// growthPct returns the percentage change from prev to cur.
// A zero prior period reports 100% when activity appeared and 0% otherwise.
func growthPct(cur, prev int) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	pct := float64(cur-prev) / float64(prev) * 100
	return math.Round(pct*10) / 10
}

// BuildTimeSeries buckets interaction counts by UTC calendar day across the
// window, oldest first. Days with no interactions are included with a zero
// count so charts render a continuous axis.
func (a *Aggregator) BuildTimeSeries(interactions []*models.Interaction, windowDays int, now time.Time) []TimePoint {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	windowStart := now.AddDate(0, 0, -windowDays)

	counts := make(map[string]int)
	for _, in := range interactions {
		if in.OccurredAt.IsZero() || in.OccurredAt.Before(windowStart) || in.OccurredAt.After(now) {
			continue
		}
		counts[in.OccurredAt.UTC().Format(time.DateOnly)]++
	}

	series := make([]TimePoint, 0, windowDays+1)
	day := windowStart.UTC().Truncate(24 * time.Hour)
	end := now.UTC().Truncate(24 * time.Hour)
	for !day.After(end) {
		key := day.Format(time.DateOnly)
		series = append(series, TimePoint{Date: key, Count: counts[key]})
		day = day.AddDate(0, 0, 1)
	}
	return series
}

// BuildTypeBreakdown counts interactions per type in the window, with the
// number of positive outcomes as the success count. Types are emitted in
// canonical order, including zero rows.
func (a *Aggregator) BuildTypeBreakdown(interactions []*models.Interaction, windowDays int, now time.Time) []TypeBreakdown {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	windowStart := now.AddDate(0, 0, -windowDays)

	byType := make(map[models.InteractionType]*TypeBreakdown, len(models.InteractionTypes))
	out := make([]TypeBreakdown, len(models.InteractionTypes))
	for i, t := range models.InteractionTypes {
		out[i] = TypeBreakdown{Type: t}
		byType[t] = &out[i]
	}

	for _, in := range interactions {
		if in.OccurredAt.IsZero() || in.OccurredAt.Before(windowStart) || in.OccurredAt.After(now) {
			continue
		}
		row, ok := byType[in.Type]
		if !ok {
			continue
		}
		row.Count++
		if in.Outcome == models.OutcomePositive {
			row.SuccessCount++
		}
	}
	return out
}

// BuildTopClients ranks clients by engagement score descending. Ties are
// broken by last contact descending, then by name for a stable order.
func (a *Aggregator) BuildTopClients(clients []*models.Client, limit int) []TopClient {
	if limit <= 0 {
		limit = 5
	}

	ranked := make([]*models.Client, len(clients))
	copy(ranked, clients)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].EngagementScore != ranked[j].EngagementScore {
			return ranked[i].EngagementScore > ranked[j].EngagementScore
		}
		if !ranked[i].LastContactAt.Equal(ranked[j].LastContactAt) {
			return ranked[i].LastContactAt.After(ranked[j].LastContactAt)
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]TopClient, len(ranked))
	for i, c := range ranked {
		out[i] = TopClient{
			ID:              c.ID,
			Name:            c.Name,
			Company:         c.Company,
			EngagementScore: c.EngagementScore,
			LastContactAt:   c.LastContactAt,
		}
	}
	return out
}

// scoreBucketRanges are the engagement distribution buckets. The last bucket
// is inclusive of 100.
var scoreBucketRanges = []string{"0-20", "20-40", "40-60", "60-80", "80-100"}

// BuildDistribution buckets clients into engagement score ranges.
func (a *Aggregator) BuildDistribution(clients []*models.Client) []ScoreBucket {
	out := make([]ScoreBucket, len(scoreBucketRanges))
	for i, r := range scoreBucketRanges {
		out[i] = ScoreBucket{Range: r}
	}

	for _, c := range clients {
		idx := c.EngagementScore / 20
		if idx >= len(out) {
			idx = len(out) - 1 // score 100 lands in 80-100
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}

// BuildDashboard assembles every aggregate in one pass-friendly call.
func (a *Aggregator) BuildDashboard(clients []*models.Client, interactions []*models.Interaction, windowDays, topN int, now time.Time) Dashboard {
	return Dashboard{
		Overview:     a.BuildOverview(clients, interactions, windowDays, now),
		TimeSeries:   a.BuildTimeSeries(interactions, windowDays, now),
		Types:        a.BuildTypeBreakdown(interactions, windowDays, now),
		TopClients:   a.BuildTopClients(clients, topN),
		Distribution: a.BuildDistribution(clients),
	}
}
