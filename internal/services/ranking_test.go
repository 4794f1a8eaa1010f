package services

import (
	"testing"
	"time"

	"agent-ranker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRankingService(t *testing.T) *RankingService {
	svc := NewRankingService(setupTestDB(t))
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seedAgentWithPosts(t *testing.T, svc *RankingService, agent models.Agent, posts []models.Post) {
	require.NoError(t, svc.UpsertAgent(&agent))
	for i := range posts {
		posts[i].AgentID = agent.ID
		require.NoError(t, svc.UpsertPost(&posts[i]))
	}
}

func TestRecomputeAllEmptyStore(t *testing.T) {
	svc := newTestRankingService(t)

	updated, err := svc.RecomputeAll()
	assert.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestRecomputeAllIdempotent(t *testing.T) {
	svc := newTestRankingService(t)

	seedAgentWithPosts(t, svc, models.Agent{
		ID:            "agent_a",
		Username:      "alpha",
		DisplayName:   "Alpha",
		Bio:           "a bio that is long enough to count",
		FollowerCount: 500,
		IsVerified:    true,
	}, []models.Post{
		{ID: "p1", Upvotes: 5, CommentCount: 1, PostedAt: fixedNow.Add(-time.Hour).Format(time.RFC3339)},
		{ID: "p2", Upvotes: 3, Downvotes: 1, PostedAt: fixedNow.Add(-48 * time.Hour).Format(time.RFC3339)},
	})
	seedAgentWithPosts(t, svc, models.Agent{
		ID:       "agent_b",
		Username: "beta",
	}, nil)

	updated, err := svc.RecomputeAll()
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	var first []models.Ranking
	require.NoError(t, svc.db.Order("agent_id").Find(&first).Error)
	require.Len(t, first, 2)

	// Clock frozen, no data change: the second run must reproduce the
	// rows exactly.
	updated, err = svc.RecomputeAll()
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	var second []models.Ranking
	require.NoError(t, svc.db.Order("agent_id").Find(&second).Error)
	assert.Equal(t, first, second)
}

func TestRecomputeAllPersistsWeightedOverall(t *testing.T) {
	svc := newTestRankingService(t)

	seedAgentWithPosts(t, svc, models.Agent{
		ID:            "agent_a",
		Username:      "alpha",
		DisplayName:   "Alpha",
		Bio:           "building things on the agent internet",
		FollowerCount: 150,
		IsVerified:    true,
	}, []models.Post{
		{ID: "p1", Upvotes: 12, Downvotes: 2, CommentCount: 4, PostedAt: fixedNow.Add(-3 * 24 * time.Hour).Format(time.RFC3339)},
	})

	_, err := svc.RecomputeAll()
	require.NoError(t, err)

	ranking, err := svc.GetRanking("agent_a")
	require.NoError(t, err)

	for _, v := range []float64{
		ranking.OverallScore, ranking.ActivityScore, ranking.EngagementScore,
		ranking.QualityScore, ranking.RecencyScore,
	} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}

	want := ranking.ActivityScore*0.25 + ranking.EngagementScore*0.35 +
		ranking.QualityScore*0.25 + ranking.RecencyScore*0.15
	// Sub-scores are rounded individually, so allow rounding slack.
	assert.InDelta(t, want, ranking.OverallScore, 0.02)
	assert.True(t, ranking.LastCalculated.Equal(fixedNow))
}

func TestRecomputeAllToleratesMalformedTimestamps(t *testing.T) {
	svc := newTestRankingService(t)

	seedAgentWithPosts(t, svc, models.Agent{
		ID:       "agent_bad",
		Username: "corrupt",
	}, []models.Post{
		{ID: "p1", Upvotes: 2, PostedAt: "definitely not a timestamp"},
	})

	updated, err := svc.RecomputeAll()
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	ranking, err := svc.GetRanking("agent_bad")
	require.NoError(t, err)
	// No recency signal: step score 0, activity keeps its base only.
	assert.Equal(t, 0.0, ranking.RecencyScore)
	assert.Greater(t, ranking.ActivityScore, 0.0)
}

func TestGetRankingNotFound(t *testing.T) {
	svc := newTestRankingService(t)

	_, err := svc.GetRanking("nope")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestScoreAgentUnknown(t *testing.T) {
	svc := newTestRankingService(t)

	_, err := svc.ScoreAgent("nope")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestUpsertAgentReplacesByID(t *testing.T) {
	svc := newTestRankingService(t)

	agent := models.Agent{ID: "agent_a", Username: "alpha", FollowerCount: 10}
	require.NoError(t, svc.UpsertAgent(&agent))

	update := models.Agent{ID: "agent_a", Username: "alpha", FollowerCount: 99}
	require.NoError(t, svc.UpsertAgent(&update))

	var count int64
	svc.db.Model(&models.Agent{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var got models.Agent
	require.NoError(t, svc.db.First(&got, "id = ?", "agent_a").Error)
	assert.Equal(t, 99, got.FollowerCount)
}

func TestUpsertAgentKeepsClaimFlag(t *testing.T) {
	svc := newTestRankingService(t)

	agent := models.Agent{ID: "agent_a", Username: "alpha"}
	require.NoError(t, svc.UpsertAgent(&agent))
	require.NoError(t, svc.db.Model(&models.Agent{}).Where("id = ?", "agent_a").
		Update("is_claimed", true).Error)

	// Re-crawling the same agent must not reset the local claim flag.
	recrawled := models.Agent{ID: "agent_a", Username: "alpha", FollowerCount: 5}
	require.NoError(t, svc.UpsertAgent(&recrawled))

	var got models.Agent
	require.NoError(t, svc.db.First(&got, "id = ?", "agent_a").Error)
	assert.True(t, got.IsClaimed)
	assert.Equal(t, 5, got.FollowerCount)
}

func TestCategorizeAndStore(t *testing.T) {
	svc := newTestRankingService(t)

	seedAgentWithPosts(t, svc, models.Agent{
		ID:       "agent_a",
		Username: "alpha",
	}, []models.Post{
		{ID: "p1", Title: "python tricks", Content: "more python"},
	})

	names, err := svc.CategorizeAndStore("agent_a")
	require.NoError(t, err)
	assert.Contains(t, names, "coding")

	var links []models.AgentCategory
	require.NoError(t, svc.db.Where("agent_id = ?", "agent_a").Find(&links).Error)
	assert.Len(t, links, len(names))
	for _, link := range links {
		assert.InDelta(t, 0.7, link.Confidence, 1e-9)
	}
}

func TestCategorizeAndStoreOverwritesPriorSet(t *testing.T) {
	svc := newTestRankingService(t)

	seedAgentWithPosts(t, svc, models.Agent{
		ID:       "agent_a",
		Username: "alpha",
	}, []models.Post{
		{ID: "p1", Content: "python python"},
	})

	_, err := svc.CategorizeAndStore("agent_a")
	require.NoError(t, err)

	// Replace the posts: the agent now talks about trading only.
	require.NoError(t, svc.db.Where("agent_id = ?", "agent_a").Delete(&models.Post{}).Error)
	seedAgentWithPosts(t, svc, models.Agent{ID: "agent_a", Username: "alpha"}, []models.Post{
		{ID: "p2", Content: "bitcoin and crypto all day"},
	})

	names, err := svc.CategorizeAndStore("agent_a")
	require.NoError(t, err)
	assert.Contains(t, names, "trading")
	assert.NotContains(t, names, "coding")

	var linked []string
	require.NoError(t, svc.db.Table("agent_categories").
		Joins("JOIN categories ON categories.id = agent_categories.category_id").
		Where("agent_categories.agent_id = ?", "agent_a").
		Pluck("categories.name", &linked).Error)
	assert.ElementsMatch(t, names, linked)
}

func TestCategorizeAndStoreUnknownAgent(t *testing.T) {
	svc := newTestRankingService(t)

	_, err := svc.CategorizeAndStore("nope")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestCategorizeAndStoreEmptyPosts(t *testing.T) {
	svc := newTestRankingService(t)

	seedAgentWithPosts(t, svc, models.Agent{ID: "agent_a", Username: "alpha"}, nil)

	names, err := svc.CategorizeAndStore("agent_a")
	require.NoError(t, err)
	assert.Equal(t, []string{FallbackCategory}, names)
}
