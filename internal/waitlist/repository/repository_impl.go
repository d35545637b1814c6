package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/momta/momta/internal/waitlist/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Entry, error) {
	var e domain.Entry
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, source, status, discount_code, created_at
		 FROM waitlist WHERE email = ?`,
		email,
	).Scan(&e).Error
	if err != nil {
		return nil, err
	}
	if e.ID == 0 {
		return nil, nil
	}
	return &e, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO waitlist (
			id, name, email, phone, source, status, discount_code, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Name,
		entry.Email,
		entry.Phone,
		entry.Source,
		entry.Status,
		entry.DiscountCode,
		entry.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Entry, error) {
	var items []domain.Entry
	stmt := db.WithContext(ctx).Model(&domain.Entry{})

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.BeforeCreatedAt != nil && filter.BeforeID != nil {
		stmt = stmt.Where("(created_at, id) < (?, ?)", *filter.BeforeCreatedAt, *filter.BeforeID)
	}

	err := stmt.
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, since time.Time) (*domain.Stats, error) {
	stats := &domain.Stats{ByStatus: make(map[string]int64)}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS count FROM waitlist GROUP BY status`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	err = db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM waitlist WHERE created_at >= ?`, since,
	).Scan(&stats.LastWeek).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM waitlist WHERE phone IS NOT NULL`,
	).Scan(&stats.WithPhone).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE waitlist SET status = ? WHERE id = ?`,
		status,
		id,
	)
	return res.RowsAffected, res.Error
}
