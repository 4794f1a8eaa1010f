package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchQuery logs one search request for analytics.
type SearchQuery struct {
	ID             uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Query          string    `json:"query" db:"query" gorm:"not null"`
	CategoryFilter string    `json:"category_filter" db:"category_filter"`
	ResultsCount   int       `json:"results_count" db:"results_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the SearchQuery model
func (SearchQuery) TableName() string {
	return "search_queries"
}
