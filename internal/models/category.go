package models

import (
	"time"

	"github.com/lib/pq"
)

// Category is one entry of the fixed topic vocabulary. Rows are seeded
// from the categorizer config at migration time; the Keywords column is
// a display mirror of that config, not the source of truth.
type Category struct {
	ID          uint           `json:"id" db:"id" gorm:"primaryKey"`
	Name        string         `json:"name" db:"name" gorm:"uniqueIndex;not null"`
	Description string         `json:"description" db:"description"`
	Keywords    pq.StringArray `json:"keywords" db:"keywords" gorm:"type:text[]"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// AgentCategory links an agent to a topic category. The full set for an
// agent is replaced on every recategorization pass; there is no
// incremental merge.
type AgentCategory struct {
	ID         uint    `json:"id" db:"id" gorm:"primaryKey"`
	AgentID    string  `json:"agent_id" db:"agent_id" gorm:"not null;uniqueIndex:idx_agent_category"`
	CategoryID uint    `json:"category_id" db:"category_id" gorm:"not null;uniqueIndex:idx_agent_category"`
	Confidence float64 `json:"confidence" db:"confidence" gorm:"default:0.0"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`

	// Relationships
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName sets the table name for the AgentCategory model
func (AgentCategory) TableName() string {
	return "agent_categories"
}
