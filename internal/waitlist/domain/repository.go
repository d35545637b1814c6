package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindByEmail returns nil when no entry exists for the normalized email.
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Entry, error)
	// Insert persists a new entry. A unique-constraint violation is returned
	// as-is; callers detect it with db.IsDuplicateKeyErr.
	Insert(ctx context.Context, db *gorm.DB, entry *Entry) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Entry, error)
	Stats(ctx context.Context, db *gorm.DB, since time.Time) (*Stats, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) (int64, error)
}

// ListFilter pages through entries ordered by (created_at, id) descending.
type ListFilter struct {
	Status          string
	Limit           int
	BeforeCreatedAt *time.Time
	BeforeID        *snowflake.ID
}
