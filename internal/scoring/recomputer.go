package scoring

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clientpulse/clientpulse/pkg/models"
)

// ClientStore defines the storage operations needed by the recomputer.
type ClientStore interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListClientInteractions(ctx context.Context, clientID string) ([]*models.Interaction, error)
	UpdateEngagement(ctx context.Context, clientID string, score int, lastContactAt *time.Time) error
	ClientsNeedingScoreUpdate(ctx context.Context, threshold time.Duration, limit int) ([]string, error)
}

// Recomputer configuration constants.
const (
	// DefaultQueueSize is the buffer size for pending recompute requests.
	// Enqueue is non-blocking; requests beyond this are dropped and picked
	// up by the periodic sweep instead.
	DefaultQueueSize = 256

	// DefaultSweepInterval is how often the background sweep runs.
	DefaultSweepInterval = 1 * time.Hour

	// DefaultSweepBatchSize is how many stale clients one sweep recomputes.
	DefaultSweepBatchSize = 200

	// StaleScoreThreshold is the age after which a score is swept even
	// without a triggering write.
	StaleScoreThreshold = 6 * time.Hour
)

// Recomputer recomputes client engagement scores asynchronously.
//
// Interaction writes enqueue the owning client; the write itself never waits
// on, or fails because of, the recompute. Concurrent recomputes of the same
// client are not coordinated: the last writer wins, which is acceptable for
// an advisory score.
type Recomputer struct {
	log        zerolog.Logger
	store      ClientStore
	calculator *Calculator
	queue      chan string
	stopCh     chan struct{}
	doneCh     chan struct{}
	interval   time.Duration
	batchSize  int
	mu         sync.Mutex
	running    bool
}

// NewRecomputer creates a new background score recomputer.
func NewRecomputer(store ClientStore, calc *Calculator, log zerolog.Logger) *Recomputer {
	return &Recomputer{
		store:      store,
		calculator: calc,
		log:        log.With().Str("component", "recomputer").Logger(),
		queue:      make(chan string, DefaultQueueSize),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		interval:   DefaultSweepInterval,
		batchSize:  DefaultSweepBatchSize,
	}
}

// Enqueue requests a score recompute for the given client.
// Non-blocking: if the queue is full the request is dropped and the client
// is left to the periodic sweep.
func (r *Recomputer) Enqueue(clientID string) {
	select {
	case r.queue <- clientID:
	default:
		r.log.Debug().Str("client", clientID).Msg("recompute queue full, dropping")
	}
}

// Start begins the background recompute loop.
// This should be called in a goroutine.
func (r *Recomputer) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		close(r.doneCh)
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("recomputer shutting down due to context cancellation")
			return
		case <-r.stopCh:
			r.log.Info().Msg("recomputer stopping")
			return
		case clientID := <-r.queue:
			r.recomputeOne(ctx, clientID)
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// Stop stops the background loop and waits for it to exit.
func (r *Recomputer) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
}

// RecomputeNow recomputes a single client synchronously.
// Returns the computed score. Used by handlers that want a fresh score and
// by tests.
func (r *Recomputer) RecomputeNow(ctx context.Context, clientID string) (int, error) {
	client, err := r.store.GetClient(ctx, clientID)
	if err != nil {
		return 0, err
	}

	interactions, err := r.store.ListClientInteractions(ctx, clientID)
	if err != nil {
		return 0, err
	}

	comp := r.calculator.CalculateComponents(client, interactions, time.Now())

	// Stale last-contact is preferable to clearing it: LastContactAt is only
	// advanced, never nulled, when the window is empty.
	if err := r.store.UpdateEngagement(ctx, clientID, comp.FinalScore, comp.LastContactAt); err != nil {
		return 0, err
	}

	return comp.FinalScore, nil
}

// recomputeOne processes a single queued recompute. Failures are logged and
// swallowed: the originating interaction write has already succeeded.
func (r *Recomputer) recomputeOne(ctx context.Context, clientID string) {
	score, err := r.RecomputeNow(ctx, clientID)
	if err != nil {
		r.log.Error().Err(err).Str("client", clientID).Msg("failed to recompute engagement score")
		return
	}
	r.log.Debug().Str("client", clientID).Int("score", score).Msg("recomputed engagement score")
}

// sweep recomputes clients whose scores have gone stale without a write.
func (r *Recomputer) sweep(ctx context.Context) {
	start := time.Now()

	ids, err := r.store.ClientsNeedingScoreUpdate(ctx, StaleScoreThreshold, r.batchSize)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list clients needing score update")
		return
	}
	if len(ids) == 0 {
		return
	}

	for _, id := range ids {
		r.recomputeOne(ctx, id)
	}

	r.log.Info().
		Int("count", len(ids)).
		Dur("elapsed", time.Since(start)).
		Msg("swept stale engagement scores")
}
