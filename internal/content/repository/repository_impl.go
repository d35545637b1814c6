package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/momta/momta/internal/content/domain"
	"gorm.io/gorm"
)

type updateRepo struct{}

func ProvideUpdateRepository() domain.UpdateRepository {
	return &updateRepo{}
}

func (r *updateRepo) Create(ctx context.Context, db *gorm.DB, update *domain.Update) error {
	return db.WithContext(ctx).Create(update).Error
}

func (r *updateRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Update, error) {
	var u domain.Update
	err := db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *updateRepo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Update, error) {
	var u domain.Update
	err := db.WithContext(ctx).First(&u, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *updateRepo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Update, error) {
	var items []domain.Update
	stmt := db.WithContext(ctx).Model(&domain.Update{})

	if filter.PublishedOnly {
		stmt = stmt.Where("published = ?", true)
	}
	if filter.FeaturedOnly {
		stmt = stmt.Where("featured = ?", true)
	}

	err := stmt.Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *updateRepo) Save(ctx context.Context, db *gorm.DB, update *domain.Update) error {
	return db.WithContext(ctx).Save(update).Error
}

func (r *updateRepo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM updates WHERE id = ?`, id)
	return res.RowsAffected, res.Error
}

type researchRepo struct{}

func ProvideResearchRepository() domain.ResearchRepository {
	return &researchRepo{}
}

func (r *researchRepo) Create(ctx context.Context, db *gorm.DB, research *domain.Research) error {
	return db.WithContext(ctx).Create(research).Error
}

func (r *researchRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Research, error) {
	var re domain.Research
	err := db.WithContext(ctx).First(&re, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &re, nil
}

func (r *researchRepo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Research, error) {
	var re domain.Research
	err := db.WithContext(ctx).First(&re, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &re, nil
}

func (r *researchRepo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Research, error) {
	var items []domain.Research
	stmt := db.WithContext(ctx).Model(&domain.Research{})

	if filter.PublishedOnly {
		stmt = stmt.Where("published = ?", true)
	}

	err := stmt.Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *researchRepo) Save(ctx context.Context, db *gorm.DB, research *domain.Research) error {
	return db.WithContext(ctx).Save(research).Error
}

func (r *researchRepo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM research WHERE id = ?`, id)
	return res.RowsAffected, res.Error
}
