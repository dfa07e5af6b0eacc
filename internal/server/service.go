// Package server provides the HTTP API service for clientpulse.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clientpulse/clientpulse/internal/analytics"
	"github.com/clientpulse/clientpulse/internal/config"
	db "github.com/clientpulse/clientpulse/internal/db/gorm"
	"github.com/clientpulse/clientpulse/internal/scoring"
	"github.com/clientpulse/clientpulse/internal/search"
	"github.com/clientpulse/clientpulse/internal/watcher"
	"github.com/clientpulse/clientpulse/pkg/models"
)

// Service configuration constants
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// MaxRequestBody caps incoming request body size.
	MaxRequestBody = 1 << 20 // 1 MiB
)

// ClientStore defines the client persistence operations the handlers need.
type ClientStore interface {
	Create(ctx context.Context, in *models.ClientInput) (*models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, p db.ClientListParams) ([]*models.Client, int64, error)
	ListAll(ctx context.Context) ([]*models.Client, error)
	Update(ctx context.Context, id string, in *models.ClientInput) (*models.Client, error)
	SoftDelete(ctx context.Context, id string) error
	UpdateEngagement(ctx context.Context, id string, score int, lastContactAt *time.Time) error
	ClientsNeedingScoreUpdate(ctx context.Context, threshold time.Duration, limit int) ([]string, error)
}

// InteractionStore defines the interaction persistence operations the
// handlers need.
type InteractionStore interface {
	Create(ctx context.Context, in *models.Interaction) (*models.Interaction, error)
	GetByID(ctx context.Context, id string) (*models.Interaction, error)
	List(ctx context.Context, p db.InteractionListParams) ([]*models.Interaction, int64, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Interaction, error)
	ListAll(ctx context.Context) ([]*models.Interaction, error)
	Update(ctx context.Context, id string, in *models.Interaction) (*models.Interaction, error)
	Delete(ctx context.Context, id string) error
	ListFollowUps(ctx context.Context, dueBefore time.Time) ([]*models.Interaction, error)
	CompleteFollowUp(ctx context.Context, id string, outcome models.Outcome, notes string) (*models.Interaction, error)
}

// ScoreQueue accepts fire-and-forget recompute requests.
type ScoreQueue interface {
	Enqueue(clientID string)
}

// Searcher runs global searches.
type Searcher interface {
	Search(ctx context.Context, query string, filters search.Filters) (*search.Result, error)
}

// Service is the main HTTP API service orchestrator.
type Service struct {
	// Version of the server binary
	version string

	// Configuration
	config *config.Config

	// Database
	store        *db.Store
	clients      ClientStore
	interactions InteractionStore

	// Domain services
	scores     ScoreQueue
	recomputer *scoring.Recomputer
	searcher   Searcher
	aggregator *analytics.Aggregator

	// HTTP server
	router    *chi.Mux
	server    *http.Server
	auth      *TokenAuth
	startTime time.Time

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Initialization state (for deferred init)
	ready     atomic.Bool
	initError error
	initMu    sync.RWMutex

	// Settings file watcher
	configWatcher *watcher.Watcher
}

// scoreStore adapts the two entity stores to the recomputer's view.
type scoreStore struct {
	clients      ClientStore
	interactions InteractionStore
}

func (ss *scoreStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return ss.clients.GetByID(ctx, id)
}

func (ss *scoreStore) ListClientInteractions(ctx context.Context, clientID string) ([]*models.Interaction, error) {
	return ss.interactions.ListByClient(ctx, clientID)
}

func (ss *scoreStore) UpdateEngagement(ctx context.Context, clientID string, score int, lastContactAt *time.Time) error {
	return ss.clients.UpdateEngagement(ctx, clientID, score, lastContactAt)
}

func (ss *scoreStore) ClientsNeedingScoreUpdate(ctx context.Context, threshold time.Duration, limit int) ([]string, error) {
	return ss.clients.ClientsNeedingScoreUpdate(ctx, threshold, limit)
}

// NewService creates a new API service with deferred initialization.
// The service starts immediately with the health endpoint available,
// while database initialization happens in the background.
func NewService(version string) (*Service, error) {
	cfg := config.Get()

	ctx, cancel := context.WithCancel(context.Background())

	svc := &Service{
		version:    version,
		config:     cfg,
		router:     chi.NewRouter(),
		auth:       NewTokenAuth(cfg.AuthToken),
		aggregator: analytics.NewAggregator(),
		ctx:        ctx,
		cancel:     cancel,
		startTime:  time.Now(),
	}

	// Setup middleware and routes (health endpoint works immediately)
	svc.setupMiddleware()
	svc.setupRoutes()

	// Start async initialization
	go svc.initializeAsync()

	return svc, nil
}

// initializeAsync performs heavy initialization in the background.
func (s *Service) initializeAsync() {
	log.Info().Msg("Starting async initialization...")

	if err := config.EnsureDataDir(); err != nil {
		s.setInitError(fmt.Errorf("ensure data dir: %w", err))
		return
	}

	// Initialize database (this includes migrations - can be slow)
	store, err := db.NewStore(db.Config{
		DSN:      s.config.DatabaseDSN,
		MaxConns: s.config.MaxConns,
	})
	if err != nil {
		s.setInitError(fmt.Errorf("init database: %w", err))
		return
	}

	clientStore := db.NewClientStore(store)
	interactionStore := db.NewInteractionStore(store)

	recomputer := scoring.NewRecomputer(
		&scoreStore{clients: clientStore, interactions: interactionStore},
		scoring.NewCalculator(),
		log.Logger,
	)
	searcher := search.NewManager(clientStore, interactionStore)

	s.initMu.Lock()
	s.store = store
	s.clients = clientStore
	s.interactions = interactionStore
	s.recomputer = recomputer
	s.scores = recomputer
	s.searcher = searcher
	s.initMu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		recomputer.Start(s.ctx)
	}()

	s.ready.Store(true)
	log.Info().Msg("Async initialization complete - service ready")

	s.startWatchers()
}

// startWatchers starts the settings file watcher.
// Port and DSN changes need a restart; the log level applies immediately.
func (s *Service) startWatchers() {
	settingsPath := config.SettingsPath()
	configWatcher, err := watcher.New(settingsPath, func() {
		log.Info().Str("path", settingsPath).Msg("Settings file changed, reloading...")
		cfg, err := config.Reload()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to reload settings")
			return
		}
		applyLogLevel(cfg.LogLevel)
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create settings watcher")
		return
	}
	s.configWatcher = configWatcher
	if err := configWatcher.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start settings watcher")
		return
	}
	log.Info().Str("path", settingsPath).Msg("Settings file watcher started")
}

// applyLogLevel sets the global zerolog level, keeping the current level on
// unknown values.
func applyLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("Unknown log level, keeping current")
		return
	}
	zerolog.SetGlobalLevel(parsed)
}

// setInitError records an initialization error.
func (s *Service) setInitError(err error) {
	s.initMu.Lock()
	s.initError = err
	s.initMu.Unlock()
	log.Error().Err(err).Msg("Async initialization failed")
}

// GetInitError returns any initialization error.
func (s *Service) GetInitError() error {
	s.initMu.RLock()
	defer s.initMu.RUnlock()
	return s.initError
}

// setupMiddleware configures the global middleware stack.
func (s *Service) setupMiddleware() {
	s.router.Use(RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(DefaultHTTPTimeout))
	s.router.Use(middleware.RealIP)
	s.router.Use(SecurityHeaders)
	s.router.Use(MaxBodySize(MaxRequestBody))
	s.router.Use(s.auth.Middleware)
}

// setupRoutes configures HTTP routes.
func (s *Service) setupRoutes() {
	// Health check returns 200 immediately so probes connect during init.
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/health", s.handleHealth)

	s.router.Get("/api/version", s.handleVersion)

	// Readiness check - returns 200 only when fully initialized
	s.router.Get("/api/ready", s.handleReady)

	// Routes that require the database to be ready
	s.router.Group(func(r chi.Router) {
		r.Use(s.requireReady)

		// Client routes
		r.Post("/api/clients", s.handleCreateClient)
		r.Get("/api/clients", s.handleListClients)
		r.Get("/api/clients/{id}", s.handleGetClient)
		r.Put("/api/clients/{id}", s.handleUpdateClient)
		r.Delete("/api/clients/{id}", s.handleDeleteClient)

		// Interaction routes
		r.Post("/api/interactions", s.handleCreateInteraction)
		r.Get("/api/interactions", s.handleListInteractions)
		r.Get("/api/interactions/{id}", s.handleGetInteraction)
		r.Put("/api/interactions/{id}", s.handleUpdateInteraction)
		r.Delete("/api/interactions/{id}", s.handleDeleteInteraction)

		// Follow-up routes
		r.Get("/api/followups", s.handleListFollowUps)
		r.Post("/api/interactions/{id}/complete-followup", s.handleCompleteFollowUp)

		// Analytics routes
		r.Get("/api/analytics/overview", s.handleAnalyticsOverview)
		r.Get("/api/analytics/timeseries", s.handleAnalyticsTimeSeries)
		r.Get("/api/analytics/types", s.handleAnalyticsTypes)
		r.Get("/api/analytics/top-clients", s.handleAnalyticsTopClients)
		r.Get("/api/analytics/engagement", s.handleAnalyticsEngagement)
		r.Get("/api/analytics/dashboard", s.handleAnalyticsDashboard)

		// Search
		r.Get("/api/search", s.handleSearch)
	})
}

// Start starts the HTTP server. Non-blocking.
func (s *Service) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	log.Info().Int("port", s.config.Port).Str("version", s.version).Msg("API server started")
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop(ctx context.Context) error {
	log.Info().Msg("Shutting down...")

	if s.configWatcher != nil {
		s.configWatcher.Stop()
	}

	var shutdownErr error
	if s.server != nil {
		shutdownErr = s.server.Shutdown(ctx)
	}

	s.initMu.RLock()
	recomputer := s.recomputer
	store := s.store
	s.initMu.RUnlock()

	if recomputer != nil {
		recomputer.Stop()
	}

	s.cancel()
	s.wg.Wait()

	if store != nil {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing database")
		}
	}

	log.Info().Msg("Shutdown complete")
	return shutdownErr
}

// Router exposes the configured router, mainly for tests.
func (s *Service) Router() http.Handler {
	return s.router
}

// requireReady is middleware that returns 503 if the service isn't ready.
func (s *Service) requireReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			if err := s.GetInitError(); err != nil {
				writeMessage(w, http.StatusInternalServerError, "service initialization failed: "+err.Error())
				return
			}
			writeMessage(w, http.StatusServiceUnavailable, "service initializing")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth handles health check requests.
// Returns 200 OK immediately (even during init) so probes can connect.
// Use /api/ready for the full readiness check.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "starting"
	if s.ready.Load() {
		status = "ready"
	} else if err := s.GetInitError(); err != nil {
		status = "error"
	}

	body := map[string]interface{}{
		"status":  status,
		"version": s.version,
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
	}

	s.initMu.RLock()
	store := s.store
	s.initMu.RUnlock()
	if store != nil {
		body["database"] = store.HealthCheck(r.Context())
	}

	writeJSON(w, http.StatusOK, body)
}

// handleVersion returns the server version.
func (s *Service) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// handleReady handles readiness check requests.
// Returns 200 only when fully initialized, 503 otherwise.
func (s *Service) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		if err := s.GetInitError(); err != nil {
			writeMessage(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeMessage(w, http.StatusServiceUnavailable, "service initializing")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
