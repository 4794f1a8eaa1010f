package services

import (
	"testing"

	"agent-ranker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedRankedFixture inserts three agents with ranking rows and topics:
// alpha (coding, 90), beta (trading, 60) and gamma (unranked, general).
func seedRankedFixture(t *testing.T, db *gorm.DB) {
	t.Helper()

	agents := []models.Agent{
		{ID: "agent_alpha", Username: "alpha", DisplayName: "Alpha Bot",
			Bio: "writes code about databases", Submolt: "general",
			FollowerCount: 1200, IsVerified: true},
		{ID: "agent_beta", Username: "beta", DisplayName: "Beta Trader",
			Bio: "market commentary", Submolt: "finance",
			FollowerCount: 80, IsClaimed: true},
		{ID: "agent_gamma", Username: "gamma"},
	}
	for i := range agents {
		require.NoError(t, db.Create(&agents[i]).Error)
	}

	rankings := []models.Ranking{
		{AgentID: "agent_alpha", OverallScore: 90, ActivityScore: 80,
			EngagementScore: 95, QualityScore: 100, RecencyScore: 70},
		{AgentID: "agent_beta", OverallScore: 60, ActivityScore: 90,
			EngagementScore: 40, QualityScore: 55, RecencyScore: 65},
	}
	for i := range rankings {
		require.NoError(t, db.Create(&rankings[i]).Error)
	}

	linkCategory(t, db, "agent_alpha", "coding")
	linkCategory(t, db, "agent_beta", "trading")
	linkCategory(t, db, "agent_gamma", "general")
}

func linkCategory(t *testing.T, db *gorm.DB, agentID, name string) {
	t.Helper()
	var category models.Category
	require.NoError(t, db.First(&category, "name = ?", name).Error)
	require.NoError(t, db.Create(&models.AgentCategory{
		AgentID:    agentID,
		CategoryID: category.ID,
		Confidence: 0.7,
	}).Error)
}

func TestTopAgentsOrdering(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	agents, err := svc.TopAgents(TopAgentsOptions{})
	require.NoError(t, err)
	require.Len(t, agents, 3)

	assert.Equal(t, "agent_alpha", agents[0].ID)
	assert.Equal(t, "agent_beta", agents[1].ID)
	assert.Equal(t, "agent_gamma", agents[2].ID)

	// The unranked agent reports zero scores, not a missing row.
	assert.Equal(t, ScoreSet{}, agents[2].Scores)
	assert.Equal(t, []string{"general"}, agents[2].Topics)
	assert.Equal(t, []string{"coding"}, agents[0].Topics)
}

func TestTopAgentsSortByActivity(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	agents, err := svc.TopAgents(TopAgentsOptions{SortBy: "activity"})
	require.NoError(t, err)
	require.NotEmpty(t, agents)
	assert.Equal(t, "agent_beta", agents[0].ID)
}

func TestTopAgentsFilters(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	t.Run("category", func(t *testing.T) {
		agents, err := svc.TopAgents(TopAgentsOptions{Category: "trading"})
		require.NoError(t, err)
		require.Len(t, agents, 1)
		assert.Equal(t, "agent_beta", agents[0].ID)
	})

	t.Run("submolt", func(t *testing.T) {
		agents, err := svc.TopAgents(TopAgentsOptions{Submolt: "finance"})
		require.NoError(t, err)
		require.Len(t, agents, 1)
		assert.Equal(t, "agent_beta", agents[0].ID)
	})

	t.Run("min_karma", func(t *testing.T) {
		min := 70.0
		agents, err := svc.TopAgents(TopAgentsOptions{MinKarma: &min})
		require.NoError(t, err)
		require.Len(t, agents, 1)
		assert.Equal(t, "agent_alpha", agents[0].ID)
	})

	t.Run("verified", func(t *testing.T) {
		verified := true
		agents, err := svc.TopAgents(TopAgentsOptions{IsVerified: &verified})
		require.NoError(t, err)
		require.Len(t, agents, 1)
		assert.Equal(t, "agent_alpha", agents[0].ID)
	})

	t.Run("claimed", func(t *testing.T) {
		claimed := true
		agents, err := svc.TopAgents(TopAgentsOptions{IsClaimed: &claimed})
		require.NoError(t, err)
		require.Len(t, agents, 1)
		assert.Equal(t, "agent_beta", agents[0].ID)
	})
}

func TestTopAgentsLimit(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	agents, err := svc.TopAgents(TopAgentsOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, agents, 2)
}

func TestSearchAgents(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	agents, err := svc.SearchAgents("market", "", 10)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "agent_beta", agents[0].ID)

	// Each search leaves an analytics row behind.
	var logged []models.SearchQuery
	require.NoError(t, db.Find(&logged).Error)
	require.Len(t, logged, 1)
	assert.Equal(t, "market", logged[0].Query)
	assert.Equal(t, 1, logged[0].ResultsCount)
}

func TestSearchAgentsCategoryFilter(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	agents, err := svc.SearchAgents("a", "coding", 10)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "agent_alpha", agents[0].ID)

	all, err := svc.SearchAgents("a", "all", 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetAgent(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	agent, err := svc.GetAgent("agent_alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", agent.Username)
	assert.Equal(t, 90.0, agent.Scores.Overall)
	assert.Equal(t, []string{"coding"}, agent.Topics)

	_, err = svc.GetAgent("missing")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	name := "Alpha Prime"
	bio := "now with a curated bio"
	require.NoError(t, svc.UpdateProfile("agent_alpha", &name, &bio))

	var agent models.Agent
	require.NoError(t, db.First(&agent, "id = ?", "agent_alpha").Error)
	assert.Equal(t, "Alpha Prime", agent.DisplayName)
	assert.Equal(t, "now with a curated bio", agent.Bio)
	assert.True(t, agent.IsClaimed)
	// Platform-owned fields stay put.
	assert.Equal(t, 1200, agent.FollowerCount)

	assert.ErrorIs(t, svc.UpdateProfile("missing", &name, nil), ErrAgentNotFound)
}

func TestCategoriesSummary(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	summaries, err := svc.Categories()
	require.NoError(t, err)
	require.Len(t, summaries, len(DefaultCategories()))

	counts := make(map[string]int, len(summaries))
	for _, s := range summaries {
		counts[s.Name] = s.AgentCount
	}
	assert.Equal(t, 1, counts["coding"])
	assert.Equal(t, 1, counts["trading"])
	assert.Equal(t, 1, counts["general"])
	assert.Equal(t, 0, counts["gaming"])
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	require.NoError(t, db.Create(&models.Post{ID: "p1", AgentID: "agent_alpha"}).Error)

	svc := NewAgentsService(db)
	stats, err := svc.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.AgentsIndexed)
	assert.Equal(t, int64(1), stats.PostsIndexed)
	assert.Equal(t, int64(len(DefaultCategories())), stats.Categories)
	assert.Equal(t, 75.0, stats.AverageScore)
}

func TestGetStatsEmpty(t *testing.T) {
	svc := NewAgentsService(setupTestDB(t))

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.AgentsIndexed)
	assert.Equal(t, 0.0, stats.AverageScore)
}

func TestExport(t *testing.T) {
	db := setupTestDB(t)
	seedRankedFixture(t, db)
	svc := NewAgentsService(db)

	export, err := svc.Export()
	require.NoError(t, err)
	require.Len(t, export, 3)

	assert.Equal(t, "agent_alpha", export[0].AgentID)
	assert.Equal(t, "Alpha Bot", export[0].Name)
	assert.Equal(t, 90.0, export[0].Karma)

	// Agents without a display name export their username.
	assert.Equal(t, "agent_gamma", export[2].AgentID)
	assert.Equal(t, "gamma", export[2].Name)
	assert.Equal(t, 0.0, export[2].Karma)
}
