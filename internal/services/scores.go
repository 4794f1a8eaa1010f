package services

import (
	"math"
	"time"
	"unicode/utf8"

	"agent-ranker/internal/models"
)

// ScoreBreakdown holds the four sub-scores and their weighted
// combination for one agent. All values are in [0,100] and rounded to
// two decimal places.
type ScoreBreakdown struct {
	Activity   float64 `json:"activity"`
	Engagement float64 `json:"engagement"`
	Quality    float64 `json:"quality"`
	Recency    float64 `json:"recency"`
	Overall    float64 `json:"overall"`
}

// postedAtLayouts are the timestamp shapes the platform has been seen
// sending: RFC3339 (with or without sub-seconds) and a naive local
// variant without a zone.
var postedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parsePostedAt parses a raw platform timestamp. The second return
// value is false when the string is empty or malformed; callers treat
// that as "no recency signal", never as an error.
func parsePostedAt(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range postedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// latestPostTime returns the most recent parseable posted_at across the
// given posts. Malformed timestamps are skipped rather than poisoning
// the lookup; ok is false when no post has a parseable timestamp.
func latestPostTime(posts []models.Post) (latest time.Time, ok bool) {
	for _, p := range posts {
		t, parsed := parsePostedAt(p.PostedAt)
		if !parsed {
			continue
		}
		if !ok || t.After(latest) {
			latest = t
			ok = true
		}
	}
	return latest, ok
}

// daysSince counts whole days elapsed between t and now, truncated
// toward zero so anything under 24 hours lands in the "<1 day" bucket.
func daysSince(t, now time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}

// activityScore rewards posting volume with diminishing returns, plus a
// bonus for recent activity. Zero posts scores zero; an agent whose
// timestamps are all unparseable keeps the volume score but gets no
// bonus.
func activityScore(posts []models.Post, now time.Time) float64 {
	if len(posts) == 0 {
		return 0
	}

	// Logarithmic scaling caps the volume contribution at 50.
	base := math.Min(math.Log10(float64(len(posts)+1))*20, 50)

	var bonus float64
	if last, ok := latestPostTime(posts); ok {
		switch days := daysSince(last, now); {
		case days < 1:
			bonus = 25
		case days < 7:
			bonus = 15
		case days < 30:
			bonus = 5
		}
	}

	return math.Min(base+bonus, 100)
}

// engagementScore measures how much interaction an agent's posts
// attract, per post rather than in total so a single viral post cannot
// dominate. With no recorded votes the upvote ratio falls back to a
// neutral 0.5.
func engagementScore(posts []models.Post) float64 {
	if len(posts) == 0 {
		return 0
	}

	var upvotes, downvotes, comments int
	for _, p := range posts {
		upvotes += p.Upvotes
		downvotes += p.Downvotes
		comments += p.CommentCount
	}

	ratio := 0.5
	if upvotes+downvotes > 0 {
		ratio = float64(upvotes) / float64(upvotes+downvotes)
	}

	count := float64(len(posts))
	avgUpvotes := float64(upvotes) / count
	avgComments := float64(comments) / count

	score := math.Min(avgUpvotes*5, 40) +
		math.Min(avgComments*10, 30) +
		ratio*20

	return math.Min(score, 100)
}

// qualityScore is computed from the agent profile alone: verification,
// profile completeness and follower count as social proof. Follower
// tiers are mutually exclusive; only the highest applicable one counts.
func qualityScore(agent models.Agent) float64 {
	var score float64

	if agent.IsVerified {
		score += 30
	}

	// A bio longer than 20 characters is taken as non-placeholder.
	if utf8.RuneCountInString(agent.Bio) > 20 {
		score += 20
	}
	if agent.DisplayName != "" {
		score += 10
	}

	switch {
	case agent.FollowerCount > 1000:
		score += 20
	case agent.FollowerCount > 100:
		score += 15
	case agent.FollowerCount > 10:
		score += 10
	}

	return math.Min(score, 100)
}

// recencyScore is a step function of days since the most recent post.
// An agent with no posts, or only unparseable timestamps, scores 0 —
// which is below the 10-point floor for agents that merely posted long
// ago. That inversion matches the historical behavior and is kept
// deliberately.
func recencyScore(posts []models.Post, now time.Time) float64 {
	last, ok := latestPostTime(posts)
	if !ok {
		return 0
	}

	switch days := daysSince(last, now); {
	case days < 1:
		return 100
	case days < 7:
		return 80
	case days < 30:
		return 50
	case days < 90:
		return 25
	default:
		return 10
	}
}

// roundScore rounds to two decimal places for storage and display.
func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

// scoreAgent computes the full breakdown for one agent from a snapshot
// of its posts. The overall score is combined from the unrounded
// sub-scores, then everything is rounded for storage.
func scoreAgent(cfg ScoringConfig, agent models.Agent, posts []models.Post, now time.Time) ScoreBreakdown {
	activity := activityScore(posts, now)
	engagement := engagementScore(posts)
	quality := qualityScore(agent)
	recency := recencyScore(posts, now)

	return ScoreBreakdown{
		Activity:   roundScore(activity),
		Engagement: roundScore(engagement),
		Quality:    roundScore(quality),
		Recency:    roundScore(recency),
		Overall:    roundScore(cfg.Combine(activity, engagement, quality, recency)),
	}
}
