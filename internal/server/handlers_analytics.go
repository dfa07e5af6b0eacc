package server

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clientpulse/clientpulse/internal/analytics"
	"github.com/clientpulse/clientpulse/pkg/models"
)

// DefaultTopClients is the default size of the top-clients list.
const DefaultTopClients = 5

// loadAnalyticsInputs fetches the full client and interaction sets in
// parallel. Aggregation itself is pure and cheap next to the two reads.
func (s *Service) loadAnalyticsInputs(r *http.Request) ([]*models.Client, []*models.Interaction, error) {
	var (
		clients      []*models.Client
		interactions []*models.Interaction
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		clients, err = s.clients.ListAll(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		interactions, err = s.interactions.ListAll(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return clients, interactions, nil
}

// windowDays parses the days query parameter, clamped to something sane.
func windowDays(r *http.Request) int {
	days := parseIntDefault(r.URL.Query().Get("days"), analytics.DefaultWindowDays)
	if days > 365 {
		days = 365
	}
	return days
}

// handleAnalyticsOverview handles GET /api/analytics/overview.
func (s *Service) handleAnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	clients, interactions, err := s.loadAnalyticsInputs(r)
	if err != nil {
		writeStoreError(w, err, "analytics_overview")
		return
	}
	writeData(w, http.StatusOK, s.aggregator.BuildOverview(clients, interactions, windowDays(r), time.Now()))
}

// handleAnalyticsTimeSeries handles GET /api/analytics/timeseries.
func (s *Service) handleAnalyticsTimeSeries(w http.ResponseWriter, r *http.Request) {
	_, interactions, err := s.loadAnalyticsInputs(r)
	if err != nil {
		writeStoreError(w, err, "analytics_timeseries")
		return
	}
	writeData(w, http.StatusOK, s.aggregator.BuildTimeSeries(interactions, windowDays(r), time.Now()))
}

// handleAnalyticsTypes handles GET /api/analytics/types.
func (s *Service) handleAnalyticsTypes(w http.ResponseWriter, r *http.Request) {
	_, interactions, err := s.loadAnalyticsInputs(r)
	if err != nil {
		writeStoreError(w, err, "analytics_types")
		return
	}
	writeData(w, http.StatusOK, s.aggregator.BuildTypeBreakdown(interactions, windowDays(r), time.Now()))
}

// handleAnalyticsTopClients handles GET /api/analytics/top-clients.
func (s *Service) handleAnalyticsTopClients(w http.ResponseWriter, r *http.Request) {
	clients, _, err := s.loadAnalyticsInputs(r)
	if err != nil {
		writeStoreError(w, err, "analytics_top_clients")
		return
	}
	limit := parseIntDefault(r.URL.Query().Get("limit"), DefaultTopClients)
	writeData(w, http.StatusOK, s.aggregator.BuildTopClients(clients, limit))
}

// handleAnalyticsEngagement handles GET /api/analytics/engagement.
func (s *Service) handleAnalyticsEngagement(w http.ResponseWriter, r *http.Request) {
	clients, _, err := s.loadAnalyticsInputs(r)
	if err != nil {
		writeStoreError(w, err, "analytics_engagement")
		return
	}
	writeData(w, http.StatusOK, s.aggregator.BuildDistribution(clients))
}

// handleAnalyticsDashboard handles GET /api/analytics/dashboard.
func (s *Service) handleAnalyticsDashboard(w http.ResponseWriter, r *http.Request) {
	clients, interactions, err := s.loadAnalyticsInputs(r)
	if err != nil {
		writeStoreError(w, err, "analytics_dashboard")
		return
	}
	limit := parseIntDefault(r.URL.Query().Get("limit"), DefaultTopClients)
	writeData(w, http.StatusOK, s.aggregator.BuildDashboard(clients, interactions, windowDays(r), limit, time.Now()))
}
