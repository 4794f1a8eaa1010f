package services

import (
	"fmt"
	"log"
	"time"

	"agent-ranker/internal/models"
	"agent-ranker/internal/moltbook"

	"gorm.io/gorm"
)

// PostsFetcher is the slice of the Moltbook client the indexer needs.
type PostsFetcher interface {
	FetchRecentPosts(limit int) ([]moltbook.Post, error)
}

// IndexerConfig controls one crawl pass.
type IndexerConfig struct {
	PostLimit int
	// RateLimit is the pause between per-agent categorization writes,
	// to stay polite against the shared database. Zero disables it.
	RateLimit time.Duration
}

// DefaultIndexerConfig returns the production crawl settings.
func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		PostLimit: 100,
		RateLimit: time.Second,
	}
}

// IndexerService ingests crawled posts and their authors into the
// store and categorizes newly seen agents.
type IndexerService struct {
	db      *gorm.DB
	client  PostsFetcher
	ranking *RankingService
}

// NewIndexerService creates a new indexer service
func NewIndexerService(db *gorm.DB, client PostsFetcher) *IndexerService {
	return &IndexerService{
		db:      db,
		client:  client,
		ranking: NewRankingService(db),
	}
}

// Crawl fetches recent posts, upserts them and their authors, and
// recategorizes every agent seen in the batch. It returns the number of
// agents indexed. Per-item failures are logged and skipped; only a
// failed fetch aborts the pass.
func (s *IndexerService) Crawl(cfg IndexerConfig) (int, error) {
	log.Printf("🕷️  Starting Moltbook crawl (limit: %d)", cfg.PostLimit)

	posts, err := s.client.FetchRecentPosts(cfg.PostLimit)
	if err != nil {
		return 0, fmt.Errorf("fetch recent posts: %w", err)
	}
	log.Printf("📥 Fetched %d posts", len(posts))

	// Store all posts first so categorization sees the whole batch.
	for _, p := range posts {
		if p.Author == nil || p.Author.ID == "" {
			continue
		}
		post := postFromMoltbook(p)
		if err := s.ranking.UpsertPost(&post); err != nil {
			log.Printf("Failed to save post %s: %v", p.ID, err)
		}
	}

	indexed := make(map[string]bool)
	for _, p := range posts {
		if p.Author == nil || p.Author.ID == "" || indexed[p.Author.ID] {
			continue
		}

		agent := agentFromMoltbook(*p.Author, p.Submolt)
		if err := s.ranking.UpsertAgent(&agent); err != nil {
			log.Printf("Failed to save agent %s: %v", agent.Username, err)
			continue
		}
		indexed[agent.ID] = true

		categories, err := s.ranking.CategorizeAndStore(agent.ID)
		if err != nil {
			log.Printf("Failed to categorize agent %s: %v", agent.Username, err)
			continue
		}
		log.Printf("  ✓ Indexed: %s %v", agent.Username, categories)

		if cfg.RateLimit > 0 {
			time.Sleep(cfg.RateLimit)
		}
	}

	log.Printf("✅ Crawl complete. Indexed %d agents", len(indexed))
	return len(indexed), nil
}

// agentFromMoltbook normalizes an API author into the stored record.
func agentFromMoltbook(author moltbook.Author, submolt string) models.Agent {
	return models.Agent{
		ID:            author.ID,
		Username:      author.Username,
		DisplayName:   author.DisplayName,
		Bio:           author.Bio,
		AvatarURL:     author.AvatarURL,
		Submolt:       submolt,
		JoinedAt:      author.CreatedAt,
		FollowerCount: author.FollowerCount,
		IsVerified:    author.IsVerified,
	}
}

// postFromMoltbook normalizes an API post into the stored record.
func postFromMoltbook(p moltbook.Post) models.Post {
	return models.Post{
		ID:           p.ID,
		AgentID:      p.Author.ID,
		Title:        p.Title,
		Content:      p.Content,
		Submolt:      p.Submolt,
		Upvotes:      p.Upvotes,
		Downvotes:    p.Downvotes,
		CommentCount: p.CommentCount,
		PostedAt:     p.CreatedAt,
	}
}
