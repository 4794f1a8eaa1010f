package workers

import (
	"context"
	"log"
	"sync"
	"time"

	"agent-ranker/internal/services"
)

// RankingsRefreshWorker periodically recomputes all agent rankings from
// the current store snapshot.
type RankingsRefreshWorker struct {
	rankingService *services.RankingService
	interval       time.Duration
	ticker         *time.Ticker
	stopChan       chan bool

	mu          sync.RWMutex
	lastRun     time.Time
	lastUpdated int
}

// NewRankingsRefreshWorker creates a new rankings refresh worker
func NewRankingsRefreshWorker(rankingService *services.RankingService, interval time.Duration) *RankingsRefreshWorker {
	return &RankingsRefreshWorker{
		rankingService: rankingService,
		interval:       interval,
		stopChan:       make(chan bool),
	}
}

// Start begins the periodic refresh process
func (w *RankingsRefreshWorker) Start(ctx context.Context) {
	w.ticker = time.NewTicker(w.interval)

	log.Printf("🔄 Starting rankings refresh worker (every %v)", w.interval)

	// Run an initial pass immediately
	go w.refresh()

	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Printf("🛑 Rankings refresh worker stopping due to context cancellation")
				return
			case <-w.stopChan:
				log.Printf("🛑 Rankings refresh worker stopping")
				return
			case <-w.ticker.C:
				w.refresh()
			}
		}
	}()
}

// Stop stops the worker
func (w *RankingsRefreshWorker) Stop() {
	if w.ticker != nil {
		w.ticker.Stop()
	}
	close(w.stopChan)
	log.Printf("✅ Rankings refresh worker stopped")
}

func (w *RankingsRefreshWorker) refresh() {
	updated, err := w.rankingService.RecomputeAll()
	if err != nil {
		log.Printf("❌ Error in rankings refresh: %v", err)
		return
	}

	w.mu.Lock()
	w.lastRun = time.Now()
	w.lastUpdated = updated
	w.mu.Unlock()
}

// RefreshStats reports the outcome of the most recent refresh pass.
type RefreshStats struct {
	LastRun     time.Time `json:"last_run"`
	LastUpdated int       `json:"last_updated"`
}

// GetStats returns statistics about the last refresh pass
func (w *RankingsRefreshWorker) GetStats() RefreshStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return RefreshStats{
		LastRun:     w.lastRun,
		LastUpdated: w.lastUpdated,
	}
}
