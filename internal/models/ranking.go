package models

import (
	"time"
)

// Ranking holds the computed scores for one agent, one row per agent.
// It is fully derived state: deleting and recomputing it from the same
// agent/post snapshot reproduces identical values. All scores are in
// [0,100], rounded to two decimal places.
type Ranking struct {
	AgentID         string    `json:"agent_id" db:"agent_id" gorm:"primaryKey"`
	OverallScore    float64   `json:"overall_score" db:"overall_score" gorm:"default:0.0"`
	ActivityScore   float64   `json:"activity_score" db:"activity_score" gorm:"default:0.0"`
	EngagementScore float64   `json:"engagement_score" db:"engagement_score" gorm:"default:0.0"`
	QualityScore    float64   `json:"quality_score" db:"quality_score" gorm:"default:0.0"`
	RecencyScore    float64   `json:"recency_score" db:"recency_score" gorm:"default:0.0"`
	LastCalculated  time.Time `json:"last_calculated" db:"last_calculated"`

	// Relationships
	Agent Agent `json:"agent,omitempty" gorm:"foreignKey:AgentID;references:ID"`
}

// TableName sets the table name for the Ranking model
func (Ranking) TableName() string {
	return "rankings"
}
