package models

import (
	"time"
)

// Agent represents an account on the source platform that gets ranked.
// The ID is the platform's own opaque identifier; the crawler upserts
// by it and never invents local identity.
type Agent struct {
	ID            string `json:"id" db:"id" gorm:"primaryKey"`
	Username      string `json:"username" db:"username" gorm:"uniqueIndex;not null"`
	DisplayName   string `json:"display_name" db:"display_name"`
	Bio           string `json:"bio" db:"bio" gorm:"type:text"`
	AvatarURL     string `json:"avatar_url" db:"avatar_url"`
	Submolt       string `json:"submolt" db:"submolt"`
	JoinedAt      string `json:"joined_at" db:"joined_at"` // raw platform timestamp, may be empty
	FollowerCount int    `json:"follower_count" db:"follower_count" gorm:"default:0"`
	IsVerified    bool   `json:"is_verified" db:"is_verified" gorm:"default:false"`
	IsClaimed     bool   `json:"is_claimed" db:"is_claimed" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Posts      []Post          `json:"posts,omitempty" gorm:"foreignKey:AgentID"`
	Categories []AgentCategory `json:"categories,omitempty" gorm:"foreignKey:AgentID"`
}

// TableName sets the table name for the Agent model
func (Agent) TableName() string {
	return "agents"
}
