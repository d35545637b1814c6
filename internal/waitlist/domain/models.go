// Package domain contains core types for the waitlist service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entry status lifecycle. The intake only ever writes StatusPending; later
// transitions are an admin concern.
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusConverted = "converted"
)

// SourceWebsite marks registrations arriving through the public subscribe
// endpoint.
const SourceWebsite = "website"

// Entry is one waitlist registration. Email is the identity: the unique index
// is the final authority on duplicates, not the application pre-check.
type Entry struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Name         string       `gorm:"type:text;not null"`
	Email        string       `gorm:"type:text;not null;uniqueIndex:ux_waitlist_email"`
	Phone        *string      `gorm:"type:text"`
	Source       string       `gorm:"type:text;not null;default:website"`
	Status       string       `gorm:"type:text;not null;default:pending"`
	DiscountCode string       `gorm:"column:discount_code;type:text;not null"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Entry) TableName() string { return "waitlist" }

// Stats summarizes the waitlist for the admin dashboard.
type Stats struct {
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"by_status"`
	LastWeek  int64            `json:"last_week"`
	WithPhone int64            `json:"with_phone"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusContacted, StatusConverted:
		return true
	default:
		return false
	}
}
