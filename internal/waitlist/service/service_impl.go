package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/momta/momta/internal/audit"
	"github.com/momta/momta/internal/ratelimit"
	"github.com/momta/momta/internal/waitlist/domain"
	pkgdb "github.com/momta/momta/pkg/db"
	"github.com/momta/momta/pkg/db/pagination"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Limiter *ratelimit.Limiter
	Audit   audit.Recorder
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	limiter *ratelimit.Limiter
	audit   audit.Recorder
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("waitlist.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		limiter: p.Limiter,
		audit:   p.Audit,
	}
}

// Matches local@domain.tld without attempting full RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	successMessage     = "Successfully joined the waitlist!"
	discountCodePrefix = "MOMTA2028-"
	unknownIdentity    = "unknown"
)

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	// The normalized email is the identity everywhere past this point.
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}

	identity := strings.TrimSpace(req.RemoteIdentity)
	if identity == "" {
		identity = unknownIdentity
	}

	admission, err := s.limiter.Allow(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !admission.Allowed {
		s.log.Info("registration rate limited",
			zap.String("identity", identity),
			zap.Time("reset_at", admission.ResetAt),
		)
		return nil, &domain.RateLimitedError{ResetAt: admission.ResetAt}
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyRegistered
	}

	var phone *string
	if p := strings.TrimSpace(req.Phone); p != "" {
		phone = &p
	}

	entry := &domain.Entry{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		Source:       domain.SourceWebsite,
		Status:       domain.StatusPending,
		DiscountCode: newDiscountCode(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		// The pre-check above is racy by design; the unique constraint is
		// the real arbiter for concurrent identical registrations.
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, err
	}

	s.audit.Record(ctx, "waitlist_signup", "waitlist", entry.ID.String(), map[string]any{
		"source": entry.Source,
	})
	s.log.Info("waitlist registration created", zap.String("id", entry.ID.String()))

	return &domain.RegisterResult{
		Message:      successMessage,
		DiscountCode: entry.DiscountCode,
	}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	status := strings.TrimSpace(req.Status)
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	limit := req.PageSize
	if limit <= 0 {
		limit = 25
	}

	filter := domain.ListFilter{
		Status: status,
		Limit:  limit + 1,
	}
	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		filter.BeforeCreatedAt = &createdAt
		filter.BeforeID = &id
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, limit, func(e domain.Entry) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        e.ID.String(),
			CreatedAt: e.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})

	resp := &domain.ListResponse{
		Entries:  make([]domain.EntryResponse, 0, len(items)),
		PageInfo: pageInfo,
	}
	for _, item := range items {
		resp.Entries = append(resp.Entries, toEntryResponse(&item))
	}
	return resp, nil
}

func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	since := time.Now().UTC().AddDate(0, 0, -7)
	return s.repo.Stats(ctx, s.db, since)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*domain.EntryResponse, error) {
	entryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	affected, err := s.repo.UpdateStatus(ctx, s.db, entryID, status)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}

	s.audit.Record(ctx, "waitlist_status_change", "waitlist", entryID.String(), map[string]any{
		"status": status,
	})

	var e domain.Entry
	if err := s.db.WithContext(ctx).First(&e, "id = ?", entryID).Error; err != nil {
		return nil, err
	}
	resp := toEntryResponse(&e)
	return &resp, nil
}

func toEntryResponse(e *domain.Entry) domain.EntryResponse {
	return domain.EntryResponse{
		ID:           e.ID.String(),
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		Source:       e.Source,
		Status:       e.Status,
		DiscountCode: e.DiscountCode,
		CreatedAt:    e.CreatedAt,
	}
}

// newDiscountCode issues the opaque per-registration token. ULIDs keep codes
// unique without a round trip to the store; the code never changes once the
// row exists.
func newDiscountCode() string {
	return discountCodePrefix + ulid.Make().String()
}
