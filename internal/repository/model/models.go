package model

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name         string        `gorm:"size:255;not null"`
	Repository   *string       `gorm:"size:255"`
	CreatedBy    string        `gorm:"size:255;not null;index"`
	CreatedAt    time.Time     `gorm:"not null"`
	Participants []Participant `gorm:"constraint:OnDelete:CASCADE"`
}

type Participant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participants_room_user"`
	UserID    string    `gorm:"size:255;not null;uniqueIndex:idx_participants_room_user;index"`
	Role      string    `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Thread struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"size:255;not null"`
	CreatedBy string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ThreadID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentID  *uuid.UUID `gorm:"type:uuid"`
	Body      string     `gorm:"type:text;not null"`
	AuthorID  string     `gorm:"size:255;not null"`
	CreatedAt time.Time  `gorm:"not null;index"`
}

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"size:255;not null;index"`
	Title     string    `gorm:"size:255;not null"`
	Body      string    `gorm:"type:text;not null"`
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index"`
}

type Rule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"size:255;not null;index"`
	Name      string    `gorm:"size:255;not null"`
	Pattern   string    `gorm:"size:512;not null"`
	Message   string    `gorm:"size:512;not null"`
	Severity  string    `gorm:"size:16;not null"`
	Enabled   bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
}

type AnalysisReport struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        string    `gorm:"size:255;not null;index"`
	Language      string    `gorm:"size:64;not null"`
	Repository    *string   `gorm:"size:255"`
	Code          string    `gorm:"type:text;not null"`
	Suggestions   []string  `gorm:"type:jsonb;serializer:json"`
	Bugs          []string  `gorm:"type:jsonb;serializer:json"`
	Optimizations []string  `gorm:"type:jsonb;serializer:json"`
	Documentation string    `gorm:"type:text"`
	Score         float64   `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

type OAuthConnection struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       string     `gorm:"size:255;not null;uniqueIndex:idx_oauth_user_provider"`
	Provider     string     `gorm:"size:32;not null;uniqueIndex:idx_oauth_user_provider"`
	AccountID    string     `gorm:"size:255;not null"`
	Username     string     `gorm:"size:255;not null"`
	AccessToken  string     `gorm:"size:1024;not null"`
	RefreshToken *string    `gorm:"size:1024"`
	ExpiresAt    *time.Time `gorm:"index"`
	Scopes       []string   `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

type FeedbackEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     string    `gorm:"size:255;not null;index"`
	AnalysisID uuid.UUID `gorm:"type:uuid;not null"`
	Accepted   bool      `gorm:"not null"`
	Note       *string   `gorm:"size:1024"`
	CreatedAt  time.Time `gorm:"not null"`
}
