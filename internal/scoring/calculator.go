// Package scoring provides engagement score calculation for clients.
package scoring

import (
	"math"
	"time"

	"github.com/clientpulse/clientpulse/pkg/models"
)

// Scoring window constants.
const (
	// WindowDays is the trailing window considered for scoring. Interactions
	// older than this contribute nothing.
	WindowDays = 90

	// FrequencyWindowDays is the shorter window used for the frequency component.
	FrequencyWindowDays = 30

	// MinScore and MaxScore bound the final engagement score.
	MinScore = 0
	MaxScore = 100
)

// Calculator computes engagement scores for clients.
type Calculator struct{}

// NewCalculator creates a new scoring calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate computes the engagement score for a client at the given time.
//
// The scoring formula sums six integer components:
//
//	Base      = status weight (active=20, prospect=10, inactive=5, former=0)
//	Frequency = tiered count of interactions in the last 30 days (max 30)
//	Quality   = round(25 × positive/total) over the 90-day window (max 25)
//	Variety   = min(10, 3 × distinct interaction types in window) (max 10)
//	Recency   = tiered days since the newest in-window interaction (max 10)
//	FollowUp  = overdue follow-up responsiveness, all interactions (max 5)
//
// The sum is clamped to [0,100]. A client with no interactions in the window
// scores exactly its base component.
func (c *Calculator) Calculate(client *models.Client, interactions []*models.Interaction, now time.Time) int {
	return c.CalculateComponents(client, interactions, now).FinalScore
}

// ScoreComponents contains the breakdown of an engagement score calculation.
// Useful for debugging and explaining scores to users.
type ScoreComponents struct {
	Base          int        `json:"base"`
	Frequency     int        `json:"frequency"`
	Quality       int        `json:"quality"`
	Variety       int        `json:"variety"`
	Recency       int        `json:"recency"`
	FollowUp      int        `json:"follow_up"`
	FinalScore    int        `json:"final_score"`
	WindowCount   int        `json:"window_count"`
	LastContactAt *time.Time `json:"last_contact_at,omitempty"`
}

// CalculateComponents returns the individual components of the engagement score.
// This is the core calculation method - Calculate() delegates to this.
func (c *Calculator) CalculateComponents(client *models.Client, interactions []*models.Interaction, now time.Time) ScoreComponents {
	comp := ScoreComponents{Base: client.Status.BaseScore()}

	windowStart := now.AddDate(0, 0, -WindowDays)
	freqStart := now.AddDate(0, 0, -FrequencyWindowDays)

	var (
		windowCount   int
		count30       int
		positiveCount int
		newest        time.Time
		typesSeen     = map[models.InteractionType]struct{}{}
	)

	for _, in := range interactions {
		// A missing date excludes the record from window filtering rather
		// than failing the whole computation.
		if in.OccurredAt.IsZero() || in.OccurredAt.Before(windowStart) {
			continue
		}
		windowCount++
		if !in.OccurredAt.Before(freqStart) {
			count30++
		}
		if in.Outcome == models.OutcomePositive {
			positiveCount++
		}
		typesSeen[in.Type] = struct{}{}
		if in.OccurredAt.After(newest) {
			newest = in.OccurredAt
		}
	}
	comp.WindowCount = windowCount

	// Frequency: tiered on the 30-day count, with a consolation tier for
	// clients that are only active over the longer window.
	switch {
	case count30 >= 5:
		comp.Frequency = 30
	case count30 >= 3:
		comp.Frequency = 20
	case count30 >= 1:
		comp.Frequency = 10
	case windowCount >= 2:
		comp.Frequency = 5
	}

	// Quality: share of positive outcomes in the window.
	if windowCount > 0 {
		comp.Quality = int(math.Round(25 * float64(positiveCount) / float64(windowCount)))
	}

	// Variety: distinct interaction types in the window.
	comp.Variety = 3 * len(typesSeen)
	if comp.Variety > 10 {
		comp.Variety = 10
	}

	// Recency: days since the newest in-window interaction.
	if !newest.IsZero() {
		days := now.Sub(newest).Hours() / 24.0
		switch {
		case days <= 1:
			comp.Recency = 10
		case days <= 7:
			comp.Recency = 7
		case days <= 14:
			comp.Recency = 5
		case days <= 30:
			comp.Recency = 3
		}
		last := newest
		comp.LastContactAt = &last
	}

	// Follow-up responsiveness: overdue follow-ups count regardless of the
	// 90-day window, but the component only applies to clients with window
	// activity. An empty window scores exactly the base component.
	if windowCount > 0 {
		overdue := 0
		for _, in := range interactions {
			if in.FollowUpRequired && !in.FollowUpAt.IsZero() && in.FollowUpAt.Before(now) {
				overdue++
			}
		}
		switch {
		case overdue == 0:
			comp.FollowUp = 5
		case overdue <= 2:
			comp.FollowUp = 2
		}
	}

	total := comp.Base + comp.Frequency + comp.Quality + comp.Variety + comp.Recency + comp.FollowUp
	if total < MinScore {
		total = MinScore
	}
	if total > MaxScore {
		total = MaxScore
	}
	comp.FinalScore = total

	return comp
}
