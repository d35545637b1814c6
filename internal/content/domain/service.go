package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Updates
	CreateUpdate(ctx context.Context, req CreateUpdateRequest) (*UpdateResponse, error)
	EditUpdate(ctx context.Context, req EditUpdateRequest) (*UpdateResponse, error)
	DeleteUpdate(ctx context.Context, id string) error
	ListUpdates(ctx context.Context, filter ListFilter) ([]UpdateResponse, error)
	GetUpdateBySlug(ctx context.Context, slug string, publishedOnly bool) (*UpdateResponse, error)

	// Research
	CreateResearch(ctx context.Context, req CreateResearchRequest) (*ResearchResponse, error)
	EditResearch(ctx context.Context, req EditResearchRequest) (*ResearchResponse, error)
	DeleteResearch(ctx context.Context, id string) error
	ListResearch(ctx context.Context, filter ListFilter) ([]ResearchResponse, error)
	GetResearchBySlug(ctx context.Context, slug string, publishedOnly bool) (*ResearchResponse, error)
}

type CreateUpdateRequest struct {
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	Excerpt         *string `json:"excerpt"`
	ImageURL        *string `json:"image_url"`
	MetaDescription *string `json:"meta_description"`
	Featured        bool    `json:"featured"`
	Published       bool    `json:"published"`
}

type EditUpdateRequest struct {
	ID              string  `json:"id"`
	Title           *string `json:"title,omitempty"`
	Content         *string `json:"content,omitempty"`
	Excerpt         *string `json:"excerpt,omitempty"`
	ImageURL        *string `json:"image_url,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
	Featured        *bool   `json:"featured,omitempty"`
	Published       *bool   `json:"published,omitempty"`
}

type UpdateResponse struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	Keywords        []string   `json:"keywords,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	Featured        bool       `json:"featured"`
	Published       bool       `json:"published"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CreateResearchRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	FileURL         *string `json:"file_url"`
	ResearchURL     *string `json:"research_url"`
	MetaDescription *string `json:"meta_description"`
	Published       bool    `json:"published"`
}

type EditResearchRequest struct {
	ID              string  `json:"id"`
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	FileURL         *string `json:"file_url,omitempty"`
	ResearchURL     *string `json:"research_url,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
	Published       *bool   `json:"published,omitempty"`
}

type ResearchResponse struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	FileURL         *string    `json:"file_url,omitempty"`
	ResearchURL     *string    `json:"research_url,omitempty"`
	Keywords        []string   `json:"keywords,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	Published       bool       `json:"published"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

var (
	ErrInvalidTitle       = errors.New("invalid_title")
	ErrInvalidContent     = errors.New("invalid_content")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidID          = errors.New("invalid_id")
	ErrSlugTaken          = errors.New("slug_taken")
	ErrNotFound           = errors.New("not_found")
)
