package services

import (
	"errors"
	"log"
	"time"

	"agent-ranker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAgentNotFound is returned when an operation references an agent ID
// that is not in the store. Unknown agents are reported, never silently
// zero-scored.
var ErrAgentNotFound = errors.New("agent not found")

// RankingService owns the scoring pipeline: ingest upserts, sub-score
// calculation, the weighted combination and the persisted Ranking rows.
type RankingService struct {
	db         *gorm.DB
	cfg        ScoringConfig
	categories []CategoryDef

	// now is swapped out in tests to pin the clock; recency buckets are
	// the only time-dependent part of the pipeline.
	now func() time.Time
}

// NewRankingService creates a ranking service with the default score
// weights and topic vocabulary.
func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{
		db:         db,
		cfg:        DefaultScoringConfig(),
		categories: DefaultCategories(),
		now:        time.Now,
	}
}

// UpsertAgent inserts or replaces an agent record by its platform ID.
// This is the ingestion contract: the crawler hands over normalized
// agents and the service does not care how they were obtained. Only
// platform-owned columns are replaced on conflict; the local is_claimed
// flag survives re-ingest.
func (s *RankingService) UpsertAgent(agent *models.Agent) error {
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "display_name", "bio", "avatar_url", "submolt",
			"joined_at", "follower_count", "is_verified", "updated_at",
		}),
	}).Create(agent).Error
}

// UpsertPost inserts or replaces a post record by its platform ID.
func (s *RankingService) UpsertPost(post *models.Post) error {
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"agent_id", "title", "content", "submolt", "upvotes",
			"downvotes", "comment_count", "posted_at", "updated_at",
		}),
	}).Create(post).Error
}

// ScoreAgent computes the current score breakdown for one agent without
// persisting it.
func (s *RankingService) ScoreAgent(agentID string) (ScoreBreakdown, error) {
	var agent models.Agent
	if err := s.db.First(&agent, "id = ?", agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScoreBreakdown{}, ErrAgentNotFound
		}
		return ScoreBreakdown{}, err
	}

	var posts []models.Post
	if err := s.db.Where("agent_id = ?", agentID).Find(&posts).Error; err != nil {
		return ScoreBreakdown{}, err
	}

	return scoreAgent(s.cfg, agent, posts, s.now()), nil
}

// GetRanking returns the persisted ranking row for an agent, or
// ErrAgentNotFound when the agent has never been ranked.
func (s *RankingService) GetRanking(agentID string) (*models.Ranking, error) {
	var ranking models.Ranking
	if err := s.db.First(&ranking, "agent_id = ?", agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return &ranking, nil
}

// RecomputeAll recomputes and upserts the ranking row of every known
// agent from the current agent/post snapshot. Each agent is its own
// read-plus-upsert unit; there is no batch-wide transaction, so
// concurrent readers only ever see complete rows. One agent failing
// does not abort the batch — failures are logged and counted, and the
// number of successfully updated agents is returned.
func (s *RankingService) RecomputeAll() (int, error) {
	var ids []string
	if err := s.db.Model(&models.Agent{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	log.Printf("🧮 Calculating rankings for %d agents...", len(ids))

	updated := 0
	failed := 0
	for _, id := range ids {
		if err := s.recomputeOne(id); err != nil {
			failed++
			log.Printf("Failed to rank agent %s: %v", id, err)
			continue
		}
		updated++
		if updated%10 == 0 {
			log.Printf("  ...%d agents ranked", updated)
		}
	}

	if failed > 0 {
		log.Printf("⚠️  %d agents failed to rank", failed)
	}
	log.Printf("✅ Rankings updated for %d agents", updated)
	return updated, nil
}

// recomputeOne scores a single agent and atomically replaces its
// ranking row.
func (s *RankingService) recomputeOne(agentID string) error {
	breakdown, err := s.ScoreAgent(agentID)
	if err != nil {
		return err
	}

	row := models.Ranking{
		AgentID:         agentID,
		OverallScore:    breakdown.Overall,
		ActivityScore:   breakdown.Activity,
		EngagementScore: breakdown.Engagement,
		QualityScore:    breakdown.Quality,
		RecencyScore:    breakdown.Recency,
		LastCalculated:  s.now(),
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "agent_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}
