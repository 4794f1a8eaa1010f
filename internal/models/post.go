package models

import (
	"time"
)

// Post is a single post ingested from the source platform. Posts are
// immutable from the pipeline's perspective; a re-crawl replaces the
// row wholesale (upsert by ID).
//
// PostedAt keeps the platform's raw timestamp string. The platform has
// shipped malformed values before, so parsing is deferred to the
// scoring code, which degrades instead of erroring.
type Post struct {
	ID           string `json:"id" db:"id" gorm:"primaryKey"`
	AgentID      string `json:"agent_id" db:"agent_id" gorm:"not null;index"`
	Title        string `json:"title" db:"title"`
	Content      string `json:"content" db:"content" gorm:"type:text"`
	Submolt      string `json:"submolt" db:"submolt"`
	Upvotes      int    `json:"upvotes" db:"upvotes" gorm:"default:0"`
	Downvotes    int    `json:"downvotes" db:"downvotes" gorm:"default:0"`
	CommentCount int    `json:"comment_count" db:"comment_count" gorm:"default:0"`
	PostedAt     string `json:"posted_at" db:"posted_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Agent Agent `json:"agent,omitempty" gorm:"foreignKey:AgentID;references:ID"`
}

// TableName sets the table name for the Post model
func (Post) TableName() string {
	return "posts"
}
