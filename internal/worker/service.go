// Package worker supervises the application's background workers.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"agent-ranker/internal/services"
	"agent-ranker/internal/workers"

	"gorm.io/gorm"
)

// WorkerService manages background workers for the application
type WorkerService struct {
	rankingService *services.RankingService
	indexerService *services.IndexerService
	refreshWorker  *workers.RankingsRefreshWorker
	crawlInterval  time.Duration
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	running        bool
	mu             sync.RWMutex
}

// NewWorkerService creates a new worker service. The fetcher may be nil
// when no platform credentials are configured; the crawl loop is then
// skipped and only rankings refresh runs.
func NewWorkerService(db *gorm.DB, fetcher services.PostsFetcher) *WorkerService {
	ctx, cancel := context.WithCancel(context.Background())

	rankingService := services.NewRankingService(db)

	var indexerService *services.IndexerService
	if fetcher != nil {
		indexerService = services.NewIndexerService(db, fetcher)
	}

	// Recompute rankings every hour
	refreshWorker := workers.NewRankingsRefreshWorker(rankingService, time.Hour)

	return &WorkerService{
		rankingService: rankingService,
		indexerService: indexerService,
		refreshWorker:  refreshWorker,
		crawlInterval:  30 * time.Minute,
		ctx:            ctx,
		cancel:         cancel,
		running:        false,
	}
}

// Start starts all background workers
func (ws *WorkerService) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil // Already running
	}

	log.Println("Starting background workers...")

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		ws.runRefreshWorker()
	}()

	if ws.indexerService != nil {
		ws.wg.Add(1)
		go func() {
			defer ws.wg.Done()
			ws.runCrawlLoop()
		}()
	} else {
		log.Println("No Moltbook client configured, crawl loop disabled")
	}

	ws.running = true
	log.Println("Background workers started successfully")

	return nil
}

// Stop stops all background workers
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return // Not running
	}

	log.Println("Stopping background workers...")

	ws.cancel()
	ws.wg.Wait()

	ws.running = false
	log.Println("Background workers stopped")
}

// IsRunning returns whether the worker service is currently running
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}

// runRefreshWorker runs the periodic rankings refresh worker
func (ws *WorkerService) runRefreshWorker() {
	log.Println("Starting rankings refresh worker...")

	ws.refreshWorker.Start(ws.ctx)

	<-ws.ctx.Done()

	log.Println("Stopping rankings refresh worker...")
	ws.refreshWorker.Stop()
}

// runCrawlLoop periodically crawls the platform and recomputes
// rankings so scores track newly ingested posts.
func (ws *WorkerService) runCrawlLoop() {
	log.Println("Starting crawl loop...")

	ticker := time.NewTicker(ws.crawlInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ws.ctx.Done():
			log.Println("Crawl loop stopped")
			return
		case <-ticker.C:
			ws.runCrawl()
		}
	}
}

func (ws *WorkerService) runCrawl() {
	count, err := ws.indexerService.Crawl(services.DefaultIndexerConfig())
	if err != nil {
		log.Printf("Crawl failed: %v", err)
		return
	}
	log.Printf("Crawl indexed %d agents, refreshing rankings...", count)

	if _, err := ws.rankingService.RecomputeAll(); err != nil {
		log.Printf("Failed to refresh rankings after crawl: %v", err)
	}
}

// GetRankingService returns the ranking service for external use
func (ws *WorkerService) GetRankingService() *services.RankingService {
	return ws.rankingService
}

// GetStatus returns the current status of the worker service
func (ws *WorkerService) GetStatus() map[string]interface{} {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	return map[string]interface{}{
		"running":       ws.running,
		"crawl_enabled": ws.indexerService != nil,
		"last_refresh":  ws.refreshWorker.GetStats(),
	}
}
