package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter narrows content listings. PublishedOnly is the public view;
// admin listings leave it unset.
type ListFilter struct {
	PublishedOnly bool
	FeaturedOnly  bool
}

type UpdateRepository interface {
	Create(ctx context.Context, db *gorm.DB, update *Update) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Update, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Update, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Update, error)
	Save(ctx context.Context, db *gorm.DB, update *Update) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}

type ResearchRepository interface {
	Create(ctx context.Context, db *gorm.DB, research *Research) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Research, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Research, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Research, error)
	Save(ctx context.Context, db *gorm.DB, research *Research) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
