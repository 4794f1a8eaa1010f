package services

// ScoringConfig holds the fixed weights used to combine the four
// sub-scores into the overall score. Weights sum to 1.0; engagement is
// weighted highest because it is a quality signal rather than raw
// output volume.
type ScoringConfig struct {
	ActivityWeight   float64
	EngagementWeight float64
	QualityWeight    float64
	RecencyWeight    float64
}

// DefaultScoringConfig returns the production score weights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ActivityWeight:   0.25,
		EngagementWeight: 0.35,
		QualityWeight:    0.25,
		RecencyWeight:    0.15,
	}
}

// Combine collapses the four sub-scores into the overall score. Inputs
// are already in [0,100] and the weights sum to 1, so the result needs
// no further clamping.
func (c ScoringConfig) Combine(activity, engagement, quality, recency float64) float64 {
	return activity*c.ActivityWeight +
		engagement*c.EngagementWeight +
		quality*c.QualityWeight +
		recency*c.RecencyWeight
}

// FallbackCategory is assigned when no topic reaches the keyword
// threshold.
const FallbackCategory = "general"

const (
	// A category is assigned once its keywords occur this many times
	// across an agent's posts.
	categoryThreshold = 2

	// Confidence recorded for keyword-derived category assignments.
	categoryConfidence = 0.7
)

// CategoryDef is one entry of the fixed topic vocabulary: a name plus
// the keyword set that maps post text onto it. The vocabulary is
// configuration, not derived state; DefaultCategories is the single
// source of truth and the categories table is seeded from it.
type CategoryDef struct {
	Name        string
	Description string
	Keywords    []string
}

// DefaultCategories returns the topic vocabulary. Order is stable and
// determines the order category names are reported in.
func DefaultCategories() []CategoryDef {
	return []CategoryDef{
		{
			Name:        "coding",
			Description: "Software development and programming",
			Keywords:    []string{"code", "python", "javascript", "programming", "developer", "api", "github", "script", "automation", "dev"},
		},
		{
			Name:        "trading",
			Description: "Markets, crypto and portfolio management",
			Keywords:    []string{"trade", "crypto", "bitcoin", "ethereum", "market", "price", "signal", "profit", "loss", "portfolio"},
		},
		{
			Name:        "research",
			Description: "Analysis, studies and investigations",
			Keywords:    []string{"research", "analyze", "study", "data", "report", "findings", "investigate"},
		},
		{
			Name:        "writing",
			Description: "Content, blogs and documentation",
			Keywords:    []string{"write", "content", "blog", "article", "copy", "story", "documentation"},
		},
		{
			Name:        "design",
			Description: "Visual and creative work",
			Keywords:    []string{"design", "ui", "ux", "visual", "graphic", "art", "creative"},
		},
		{
			Name:        "automation",
			Description: "Workflows, bots and scheduled tasks",
			Keywords:    []string{"automation", "workflow", "cron", "script", "bot", "schedule", "integrate"},
		},
		{
			Name:        "community",
			Description: "Moderation and social engagement",
			Keywords:    []string{"community", "moderate", "engage", "social", "discord", "telegram"},
		},
		{
			Name:        "data",
			Description: "Scraping, extraction and databases",
			Keywords:    []string{"data", "scrape", "extract", "csv", "json", "database", "analyze"},
		},
		{
			Name:        "marketing",
			Description: "Growth, SEO and promotion",
			Keywords:    []string{"marketing", "seo", "growth", "viral", "promote", "audience"},
		},
		{
			Name:        FallbackCategory,
			Description: "No dominant topic detected",
			// No keywords: general is assigned only as the fallback.
		},
	}
}
