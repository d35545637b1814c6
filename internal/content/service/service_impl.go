package service

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/momta/momta/internal/audit"
	"github.com/momta/momta/internal/content/domain"
	pkgdb "github.com/momta/momta/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	UpdateRepo   domain.UpdateRepository
	ResearchRepo domain.ResearchRepository
	Audit        audit.Recorder
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	updateRepo   domain.UpdateRepository
	researchRepo domain.ResearchRepository
	audit        audit.Recorder
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("content.service"),
		genID:        p.GenID,
		updateRepo:   p.UpdateRepo,
		researchRepo: p.ResearchRepo,
		audit:        p.Audit,
	}
}

func (s *Service) CreateUpdate(ctx context.Context, req domain.CreateUpdateRequest) (*domain.UpdateResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}

	now := time.Now().UTC()
	u := &domain.Update{
		ID:              s.genID.Generate(),
		Slug:            slug.Make(title),
		Title:           title,
		Content:         content,
		Excerpt:         trimPtr(req.Excerpt),
		ImageURL:        trimPtr(req.ImageURL),
		Keywords:        datatypes.NewJSONSlice(extractKeywords(title, content)),
		MetaDescription: trimPtr(req.MetaDescription),
		Featured:        req.Featured,
		Published:       req.Published,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Published {
		u.PublishedAt = &now
	}

	if err := s.updateRepo.Create(ctx, s.db, u); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.audit.Record(ctx, "update_created", "updates", u.ID.String(), map[string]any{
		"slug": u.Slug,
	})
	s.log.Info("update created", zap.String("id", u.ID.String()), zap.String("slug", u.Slug))

	resp := toUpdateResponse(u)
	return &resp, nil
}

func (s *Service) EditUpdate(ctx context.Context, req domain.EditUpdateRequest) (*domain.UpdateResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	u, err := s.updateRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		u.Title = title
		// The slug follows the title so public URLs stay readable. Old links
		// break on rename; acceptable for a pre-launch site.
		u.Slug = slug.Make(title)
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, domain.ErrInvalidContent
		}
		u.Content = content
	}
	if req.Excerpt != nil {
		u.Excerpt = trimPtr(req.Excerpt)
	}
	if req.ImageURL != nil {
		u.ImageURL = trimPtr(req.ImageURL)
	}
	if req.MetaDescription != nil {
		u.MetaDescription = trimPtr(req.MetaDescription)
	}
	if req.Featured != nil {
		u.Featured = *req.Featured
	}
	now := time.Now().UTC()
	if req.Published != nil && *req.Published != u.Published {
		u.Published = *req.Published
		if u.Published {
			u.PublishedAt = &now
		} else {
			u.PublishedAt = nil
		}
	}
	if req.Title != nil || req.Content != nil {
		u.Keywords = datatypes.NewJSONSlice(extractKeywords(u.Title, u.Content))
	}
	u.UpdatedAt = now

	if err := s.updateRepo.Save(ctx, s.db, u); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.audit.Record(ctx, "update_edited", "updates", u.ID.String(), map[string]any{
		"slug": u.Slug,
	})

	resp := toUpdateResponse(u)
	return &resp, nil
}

func (s *Service) DeleteUpdate(ctx context.Context, rawID string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return domain.ErrInvalidID
	}

	affected, err := s.updateRepo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.audit.Record(ctx, "update_deleted", "updates", id.String(), nil)
	return nil
}

func (s *Service) ListUpdates(ctx context.Context, filter domain.ListFilter) ([]domain.UpdateResponse, error) {
	items, err := s.updateRepo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UpdateResponse, 0, len(items))
	for i := range items {
		out = append(out, toUpdateResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) GetUpdateBySlug(ctx context.Context, rawSlug string, publishedOnly bool) (*domain.UpdateResponse, error) {
	u, err := s.updateRepo.FindBySlug(ctx, s.db, strings.TrimSpace(rawSlug))
	if err != nil {
		return nil, err
	}
	if u == nil || (publishedOnly && !u.Published) {
		return nil, domain.ErrNotFound
	}
	resp := toUpdateResponse(u)
	return &resp, nil
}

func (s *Service) CreateResearch(ctx context.Context, req domain.CreateResearchRequest) (*domain.ResearchResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}

	now := time.Now().UTC()
	re := &domain.Research{
		ID:              s.genID.Generate(),
		Slug:            slug.Make(title),
		Title:           title,
		Description:     description,
		FileURL:         trimPtr(req.FileURL),
		ResearchURL:     trimPtr(req.ResearchURL),
		Keywords:        datatypes.NewJSONSlice(extractKeywords(title, description)),
		MetaDescription: trimPtr(req.MetaDescription),
		Published:       req.Published,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Published {
		re.PublishedAt = &now
	}

	if err := s.researchRepo.Create(ctx, s.db, re); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.audit.Record(ctx, "research_created", "research", re.ID.String(), map[string]any{
		"slug": re.Slug,
	})
	s.log.Info("research created", zap.String("id", re.ID.String()), zap.String("slug", re.Slug))

	resp := toResearchResponse(re)
	return &resp, nil
}

func (s *Service) EditResearch(ctx context.Context, req domain.EditResearchRequest) (*domain.ResearchResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	re, err := s.researchRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if re == nil {
		return nil, domain.ErrNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		re.Title = title
		re.Slug = slug.Make(title)
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, domain.ErrInvalidDescription
		}
		re.Description = description
	}
	if req.FileURL != nil {
		re.FileURL = trimPtr(req.FileURL)
	}
	if req.ResearchURL != nil {
		re.ResearchURL = trimPtr(req.ResearchURL)
	}
	if req.MetaDescription != nil {
		re.MetaDescription = trimPtr(req.MetaDescription)
	}
	now := time.Now().UTC()
	if req.Published != nil && *req.Published != re.Published {
		re.Published = *req.Published
		if re.Published {
			re.PublishedAt = &now
		} else {
			re.PublishedAt = nil
		}
	}
	if req.Title != nil || req.Description != nil {
		re.Keywords = datatypes.NewJSONSlice(extractKeywords(re.Title, re.Description))
	}
	re.UpdatedAt = now

	if err := s.researchRepo.Save(ctx, s.db, re); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.audit.Record(ctx, "research_edited", "research", re.ID.String(), map[string]any{
		"slug": re.Slug,
	})

	resp := toResearchResponse(re)
	return &resp, nil
}

func (s *Service) DeleteResearch(ctx context.Context, rawID string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return domain.ErrInvalidID
	}

	affected, err := s.researchRepo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.audit.Record(ctx, "research_deleted", "research", id.String(), nil)
	return nil
}

func (s *Service) ListResearch(ctx context.Context, filter domain.ListFilter) ([]domain.ResearchResponse, error) {
	items, err := s.researchRepo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ResearchResponse, 0, len(items))
	for i := range items {
		out = append(out, toResearchResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) GetResearchBySlug(ctx context.Context, rawSlug string, publishedOnly bool) (*domain.ResearchResponse, error) {
	re, err := s.researchRepo.FindBySlug(ctx, s.db, strings.TrimSpace(rawSlug))
	if err != nil {
		return nil, err
	}
	if re == nil || (publishedOnly && !re.Published) {
		return nil, domain.ErrNotFound
	}
	resp := toResearchResponse(re)
	return &resp, nil
}

func toUpdateResponse(u *domain.Update) domain.UpdateResponse {
	return domain.UpdateResponse{
		ID:              u.ID.String(),
		Slug:            u.Slug,
		Title:           u.Title,
		Content:         u.Content,
		Excerpt:         u.Excerpt,
		ImageURL:        u.ImageURL,
		Keywords:        u.Keywords,
		MetaDescription: u.MetaDescription,
		Featured:        u.Featured,
		Published:       u.Published,
		PublishedAt:     u.PublishedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func toResearchResponse(r *domain.Research) domain.ResearchResponse {
	return domain.ResearchResponse{
		ID:              r.ID.String(),
		Slug:            r.Slug,
		Title:           r.Title,
		Description:     r.Description,
		FileURL:         r.FileURL,
		ResearchURL:     r.ResearchURL,
		Keywords:        r.Keywords,
		MetaDescription: r.MetaDescription,
		Published:       r.Published,
		PublishedAt:     r.PublishedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

var wordPattern = regexp.MustCompile(`[a-z][a-z']+`)

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "been": {}, "being": {}, "from": {},
	"have": {}, "here": {}, "into": {}, "just": {}, "more": {}, "most": {},
	"only": {}, "other": {}, "over": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "those": {}, "through": {}, "very": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "will": {},
	"with": {}, "would": {}, "your": {},
}

const maxKeywords = 10

// extractKeywords ranks words from the title and body by frequency, with
// title words counted double. Words shorter than four letters and common
// English filler are skipped.
func extractKeywords(title, body string) []string {
	counts := make(map[string]int)
	order := make(map[string]int)
	next := 0

	count := func(text string, weight int) {
		for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
			if len(w) < 4 {
				continue
			}
			if _, skip := stopwords[w]; skip {
				continue
			}
			if _, seen := counts[w]; !seen {
				order[w] = next
				next++
			}
			counts[w] += weight
		}
	}
	count(title, 2)
	count(body, 1)

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return order[words[i]] < order[words[j]]
	})

	if len(words) > maxKeywords {
		words = words[:maxKeywords]
	}
	return words
}
