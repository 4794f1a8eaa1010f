package services

import (
	"errors"
	"log"
	"time"

	"agent-ranker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentsService is the read side of the store: ranked listings, search,
// stats and the public export. It only consumes what the pipeline has
// persisted.
type AgentsService struct {
	db *gorm.DB
}

// NewAgentsService creates a new agents query service
func NewAgentsService(db *gorm.DB) *AgentsService {
	return &AgentsService{db: db}
}

// ScoreSet mirrors one Ranking row in API responses. Agents that have
// never been ranked report zeros.
type ScoreSet struct {
	Overall    float64 `json:"overall"`
	Activity   float64 `json:"activity"`
	Engagement float64 `json:"engagement"`
	Quality    float64 `json:"quality"`
	Recency    float64 `json:"recency"`
}

// RankedAgent is an agent profile joined with its scores and topics.
type RankedAgent struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	Bio           string    `json:"bio"`
	AvatarURL     string    `json:"avatar_url"`
	Submolt       string    `json:"submolt"`
	FollowerCount int       `json:"follower_count"`
	IsVerified    bool      `json:"is_verified"`
	IsClaimed     bool      `json:"is_claimed"`
	LastActive    time.Time `json:"last_active"`
	Scores        ScoreSet  `json:"scores"`
	Topics        []string  `json:"topics"`
}

// TopAgentsOptions filters and sorts a ranked listing. Nil pointer
// fields mean "no filter".
type TopAgentsOptions struct {
	Category   string
	Submolt    string
	MinKarma   *float64
	IsVerified *bool
	IsClaimed  *bool
	SortBy     string // karma, activity, engagement, quality, recency, last_active
	Limit      int
}

// rankedRow is the flat scan target for the agents/rankings join.
type rankedRow struct {
	ID              string
	Username        string
	DisplayName     string
	Bio             string
	AvatarURL       string
	Submolt         string
	FollowerCount   int
	IsVerified      bool
	IsClaimed       bool
	UpdatedAt       time.Time
	OverallScore    float64
	ActivityScore   float64
	EngagementScore float64
	QualityScore    float64
	RecencyScore    float64
}

const rankedColumns = `agents.id, agents.username, agents.display_name, agents.bio,
	agents.avatar_url, agents.submolt, agents.follower_count, agents.is_verified,
	agents.is_claimed, agents.updated_at,
	COALESCE(rankings.overall_score, 0) AS overall_score,
	COALESCE(rankings.activity_score, 0) AS activity_score,
	COALESCE(rankings.engagement_score, 0) AS engagement_score,
	COALESCE(rankings.quality_score, 0) AS quality_score,
	COALESCE(rankings.recency_score, 0) AS recency_score`

// rankedQuery is the base listing query: every agent with its ranking
// row (if any) joined in.
func (s *AgentsService) rankedQuery() *gorm.DB {
	return s.db.Table("agents").
		Select(rankedColumns).
		Joins("LEFT JOIN rankings ON rankings.agent_id = agents.id")
}

// sortColumn maps an API sort key onto the underlying column. Unknown
// keys fall back to overall score ("karma").
func sortColumn(sortBy string) string {
	switch sortBy {
	case "activity":
		return "activity_score"
	case "engagement":
		return "engagement_score"
	case "quality":
		return "quality_score"
	case "recency":
		return "recency_score"
	case "last_active":
		return "agents.updated_at"
	default:
		return "overall_score"
	}
}

// TopAgents returns the highest ranked agents matching the options.
func (s *AgentsService) TopAgents(opts TopAgentsOptions) ([]RankedAgent, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := s.rankedQuery()

	if opts.Category != "" {
		q = q.Joins("JOIN agent_categories ON agent_categories.agent_id = agents.id").
			Joins("JOIN categories ON categories.id = agent_categories.category_id AND categories.name = ?", opts.Category)
	}
	if opts.Submolt != "" {
		q = q.Where("agents.submolt = ?", opts.Submolt)
	}
	if opts.MinKarma != nil {
		q = q.Where("rankings.overall_score >= ?", *opts.MinKarma)
	}
	if opts.IsVerified != nil {
		q = q.Where("agents.is_verified = ?", *opts.IsVerified)
	}
	if opts.IsClaimed != nil {
		q = q.Where("agents.is_claimed = ?", *opts.IsClaimed)
	}

	var rows []rankedRow
	if err := q.Order(sortColumn(opts.SortBy) + " DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return s.attachTopics(rows)
}

// SearchAgents matches agents by username, display name or bio and
// returns them ranked. Every search is logged for analytics; a failed
// log write does not fail the search.
func (s *AgentsService) SearchAgents(query, category string, limit int) ([]RankedAgent, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	pattern := "%" + query + "%"
	q := s.rankedQuery().
		Where("agents.username LIKE ? OR agents.display_name LIKE ? OR agents.bio LIKE ?", pattern, pattern, pattern)

	if category != "" && category != "all" {
		q = q.Joins("JOIN agent_categories ON agent_categories.agent_id = agents.id").
			Joins("JOIN categories ON categories.id = agent_categories.category_id AND categories.name = ?", category)
	}

	var rows []rankedRow
	if err := q.Order("overall_score DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	logEntry := models.SearchQuery{
		ID:             uuid.New(),
		Query:          query,
		CategoryFilter: category,
		ResultsCount:   len(rows),
	}
	if err := s.db.Create(&logEntry).Error; err != nil {
		log.Printf("Failed to log search query %q: %v", query, err)
	}

	return s.attachTopics(rows)
}

// GetAgent returns one agent with scores and topics, or
// ErrAgentNotFound.
func (s *AgentsService) GetAgent(agentID string) (*RankedAgent, error) {
	var agent models.Agent
	if err := s.db.First(&agent, "id = ?", agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}

	var rows []rankedRow
	if err := s.rankedQuery().Where("agents.id = ?", agentID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrAgentNotFound
	}

	agents, err := s.attachTopics(rows)
	if err != nil {
		return nil, err
	}
	return &agents[0], nil
}

// UpdateProfile applies a claimed-profile edit: display name and bio
// are owner-editable, everything else stays platform-owned. The agent
// is marked claimed as a side effect.
func (s *AgentsService) UpdateProfile(agentID string, displayName, bio *string) error {
	updates := map[string]interface{}{"is_claimed": true}
	if displayName != nil {
		updates["display_name"] = *displayName
	}
	if bio != nil {
		updates["bio"] = *bio
	}

	res := s.db.Model(&models.Agent{}).Where("id = ?", agentID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAgentNotFound
	}
	return nil
}

// CategorySummary is one vocabulary entry with its agent count.
type CategorySummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AgentCount  int    `json:"agent_count"`
}

// Categories returns the topic vocabulary with per-category agent
// counts, ordered by name.
func (s *AgentsService) Categories() ([]CategorySummary, error) {
	var summaries []CategorySummary
	err := s.db.Table("categories").
		Select("categories.name, categories.description, COUNT(agent_categories.agent_id) AS agent_count").
		Joins("LEFT JOIN agent_categories ON agent_categories.category_id = categories.id").
		Group("categories.id, categories.name, categories.description").
		Order("categories.name").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Stats summarizes the indexed corpus.
type Stats struct {
	AgentsIndexed int64   `json:"agents_indexed"`
	PostsIndexed  int64   `json:"posts_indexed"`
	Categories    int64   `json:"categories"`
	AverageScore  float64 `json:"average_score"`
}

// GetStats returns corpus-wide counters and the average overall score.
func (s *AgentsService) GetStats() (*Stats, error) {
	var stats Stats
	if err := s.db.Model(&models.Agent{}).Count(&stats.AgentsIndexed).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Post{}).Count(&stats.PostsIndexed).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Category{}).Count(&stats.Categories).Error; err != nil {
		return nil, err
	}

	var avg float64
	if err := s.db.Model(&models.Ranking{}).
		Select("COALESCE(AVG(overall_score), 0)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.AverageScore = roundScore(avg)

	return &stats, nil
}

// ExportAgent is one row of the public bulk export.
type ExportAgent struct {
	AgentID       string    `json:"agent_id"`
	Name          string    `json:"name"`
	Karma         float64   `json:"karma"`
	FollowerCount int       `json:"follower_count"`
	LastActive    time.Time `json:"last_active"`
	IsVerified    bool      `json:"is_verified"`
	Topics        []string  `json:"topics"`
	Scores        ScoreSet  `json:"scores"`
}

// Export dumps every agent with scores and topics, best first.
func (s *AgentsService) Export() ([]ExportAgent, error) {
	var rows []rankedRow
	if err := s.rankedQuery().Order("overall_score DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	agents, err := s.attachTopics(rows)
	if err != nil {
		return nil, err
	}

	export := make([]ExportAgent, 0, len(agents))
	for _, a := range agents {
		name := a.DisplayName
		if name == "" {
			name = a.Username
		}
		export = append(export, ExportAgent{
			AgentID:       a.ID,
			Name:          name,
			Karma:         a.Scores.Overall,
			FollowerCount: a.FollowerCount,
			LastActive:    a.LastActive,
			IsVerified:    a.IsVerified,
			Topics:        a.Topics,
			Scores:        a.Scores,
		})
	}
	return export, nil
}

// attachTopics converts scan rows into RankedAgents and bulk-loads
// their category names.
func (s *AgentsService) attachTopics(rows []rankedRow) ([]RankedAgent, error) {
	agents := make([]RankedAgent, 0, len(rows))
	if len(rows) == 0 {
		return agents, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	type topicRow struct {
		AgentID string
		Name    string
	}
	var topicRows []topicRow
	err := s.db.Table("agent_categories").
		Select("agent_categories.agent_id, categories.name").
		Joins("JOIN categories ON categories.id = agent_categories.category_id").
		Where("agent_categories.agent_id IN ?", ids).
		Order("categories.name").
		Scan(&topicRows).Error
	if err != nil {
		return nil, err
	}

	topics := make(map[string][]string, len(rows))
	for _, tr := range topicRows {
		topics[tr.AgentID] = append(topics[tr.AgentID], tr.Name)
	}

	for _, r := range rows {
		agents = append(agents, RankedAgent{
			ID:            r.ID,
			Username:      r.Username,
			DisplayName:   r.DisplayName,
			Bio:           r.Bio,
			AvatarURL:     r.AvatarURL,
			Submolt:       r.Submolt,
			FollowerCount: r.FollowerCount,
			IsVerified:    r.IsVerified,
			IsClaimed:     r.IsClaimed,
			LastActive:    r.UpdatedAt,
			Scores: ScoreSet{
				Overall:    r.OverallScore,
				Activity:   r.ActivityScore,
				Engagement: r.EngagementScore,
				Quality:    r.QualityScore,
				Recency:    r.RecencyScore,
			},
			Topics: topics[r.ID],
		})
	}
	return agents, nil
}
