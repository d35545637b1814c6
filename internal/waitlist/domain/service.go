package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momta/momta/pkg/db/pagination"
)

type Service interface {
	// Register turns a registration request into at most one persisted entry
	// plus a discount code. Re-registering the same normalized email is not a
	// failure: it yields ErrAlreadyRegistered and never touches the stored
	// entry or its code.
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)

	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Stats(ctx context.Context) (*Stats, error)
	UpdateStatus(ctx context.Context, id string, status string) (*EntryResponse, error)
}

type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	// RemoteIdentity keys the rate limit: the caller's network origin at the
	// server boundary.
	RemoteIdentity string `json:"-"`
}

type RegisterResult struct {
	Message      string `json:"message"`
	DiscountCode string `json:"discount_code"`
}

type ListRequest struct {
	Status string
	pagination.Pagination
}

type ListResponse struct {
	Entries  []EntryResponse      `json:"entries"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type EntryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	DiscountCode string    `json:"discount_code"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidID         = errors.New("invalid_id")
	ErrAlreadyRegistered = errors.New("already_registered")
	ErrNotFound          = errors.New("not_found")
)

// RateLimitedError rejects a registration until ResetAt.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate_limited until %s", e.ResetAt.Format(time.RFC3339))
}
