// Package domain contains core types for site content: updates (news posts)
// and research entries.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Update is one news post on the public site.
type Update struct {
	ID              snowflake.ID                  `gorm:"primaryKey"`
	Slug            string                        `gorm:"type:text;not null;uniqueIndex:ux_updates_slug"`
	Title           string                        `gorm:"type:text;not null"`
	Content         string                        `gorm:"type:text;not null"`
	Excerpt         *string                       `gorm:"type:text"`
	ImageURL        *string                       `gorm:"column:image_url;type:text"`
	Keywords        datatypes.JSONSlice[string]   `gorm:"type:jsonb"`
	MetaDescription *string                       `gorm:"column:meta_description;type:text"`
	Featured        bool                          `gorm:"not null;default:false"`
	Published       bool                          `gorm:"not null;default:false"`
	PublishedAt     *time.Time                    `gorm:"column:published_at"`
	CreatedAt       time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Update) TableName() string { return "updates" }

// Research is one research entry, optionally linking an uploaded file or an
// external publication.
type Research struct {
	ID              snowflake.ID                  `gorm:"primaryKey"`
	Slug            string                        `gorm:"type:text;not null;uniqueIndex:ux_research_slug"`
	Title           string                        `gorm:"type:text;not null"`
	Description     string                        `gorm:"type:text;not null"`
	FileURL         *string                       `gorm:"column:file_url;type:text"`
	ResearchURL     *string                       `gorm:"column:research_url;type:text"`
	Keywords        datatypes.JSONSlice[string]   `gorm:"type:jsonb"`
	MetaDescription *string                       `gorm:"column:meta_description;type:text"`
	Published       bool                          `gorm:"not null;default:false"`
	PublishedAt     *time.Time                    `gorm:"column:published_at"`
	CreatedAt       time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Research) TableName() string { return "research" }
