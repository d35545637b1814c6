package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/momta/momta/internal/content/domain"
	"github.com/momta/momta/internal/content/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recorderStub struct {
	mu     sync.Mutex
	events []string
}

func (r *recorderStub) Record(_ context.Context, eventType, _ string, _ string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Update{}, &domain.Research{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		UpdateRepo:   repository.ProvideUpdateRepository(),
		ResearchRepo: repository.ProvideResearchRepository(),
		Audit:        &recorderStub{},
	})
	return svc, db
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCreateUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateUpdate(ctx, domain.CreateUpdateRequest{
		Title:     "Momta Launches Its 2028 Program",
		Content:   "The Momta program opens to families this spring. The program includes guided sessions.",
		Published: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "momta-launches-its-2028-program", res.Slug)
	assert.True(t, res.Published)
	require.NotNil(t, res.PublishedAt)
	assert.NotEmpty(t, res.Keywords)
	assert.Contains(t, res.Keywords, "momta")
	assert.Contains(t, res.Keywords, "program")
}

func TestCreateUpdateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Content: "body"})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Hello"})
	assert.ErrorIs(t, err, domain.ErrInvalidContent)
}

func TestCreateUpdateSlugConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Same Title", Content: "first"})
	require.NoError(t, err)

	_, err = svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Same Title", Content: "second"})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestEditUpdatePublishCycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Draft Post", Content: "draft body"})
	require.NoError(t, err)
	assert.False(t, created.Published)
	assert.Nil(t, created.PublishedAt)

	published, err := svc.EditUpdate(ctx, domain.EditUpdateRequest{ID: created.ID, Published: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, published.Published)
	require.NotNil(t, published.PublishedAt)

	unpublished, err := svc.EditUpdate(ctx, domain.EditUpdateRequest{ID: created.ID, Published: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, unpublished.Published)
	assert.Nil(t, unpublished.PublishedAt)
}

func TestEditUpdateRenameRegeneratesSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Old Name", Content: "body"})
	require.NoError(t, err)

	edited, err := svc.EditUpdate(ctx, domain.EditUpdateRequest{ID: created.ID, Title: strPtr("New Name")})
	require.NoError(t, err)
	assert.Equal(t, "new-name", edited.Slug)
}

func TestEditUpdateNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.EditUpdate(ctx, domain.EditUpdateRequest{ID: "123456789", Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.EditUpdate(ctx, domain.EditUpdateRequest{ID: "not-an-id"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestDeleteUpdate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "To Delete", Content: "body"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUpdate(ctx, created.ID))

	var count int64
	require.NoError(t, db.Model(&domain.Update{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.DeleteUpdate(ctx, created.ID), domain.ErrNotFound)
}

func TestListUpdatesPublishedFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Public Post", Content: "body", Published: true})
	require.NoError(t, err)
	_, err = svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Hidden Draft", Content: "body"})
	require.NoError(t, err)
	_, err = svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Front Page", Content: "body", Published: true, Featured: true})
	require.NoError(t, err)

	public, err := svc.ListUpdates(ctx, domain.ListFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, public, 2)
	for _, u := range public {
		assert.True(t, u.Published)
	}

	featured, err := svc.ListUpdates(ctx, domain.ListFilter{PublishedOnly: true, FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "front-page", featured[0].Slug)

	all, err := svc.ListUpdates(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetUpdateBySlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Visible", Content: "body", Published: true})
	require.NoError(t, err)
	_, err = svc.CreateUpdate(ctx, domain.CreateUpdateRequest{Title: "Draft Only", Content: "body"})
	require.NoError(t, err)

	got, err := svc.GetUpdateBySlug(ctx, "visible", true)
	require.NoError(t, err)
	assert.Equal(t, "Visible", got.Title)

	// Drafts are invisible on the public path but readable for admins.
	_, err = svc.GetUpdateBySlug(ctx, "draft-only", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	draft, err := svc.GetUpdateBySlug(ctx, "draft-only", false)
	require.NoError(t, err)
	assert.Equal(t, "Draft Only", draft.Title)

	_, err = svc.GetUpdateBySlug(ctx, "missing", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResearchLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateResearch(ctx, domain.CreateResearchRequest{
		Title:       "Sleep Study Results",
		Description: "Findings from the 2027 infant sleep study cohort.",
		ResearchURL: strPtr("https://example.org/sleep-study"),
		Published:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "sleep-study-results", created.Slug)
	require.NotNil(t, created.ResearchURL)

	got, err := svc.GetResearchBySlug(ctx, "sleep-study-results", true)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	edited, err := svc.EditResearch(ctx, domain.EditResearchRequest{
		ID:      created.ID,
		FileURL: strPtr("/media/sleep-study.pdf"),
	})
	require.NoError(t, err)
	require.NotNil(t, edited.FileURL)
	assert.Equal(t, "/media/sleep-study.pdf", *edited.FileURL)

	list, err := svc.ListResearch(ctx, domain.ListFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteResearch(ctx, created.ID))
	_, err = svc.GetResearchBySlug(ctx, "sleep-study-results", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResearchValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateResearch(ctx, domain.CreateResearchRequest{Description: "d"})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = svc.CreateResearch(ctx, domain.CreateResearchRequest{Title: "t"})
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)
}

func TestExtractKeywords(t *testing.T) {
	words := extractKeywords(
		"Infant Sleep Patterns",
		"Sleep research shows infant sleep improves when routines stay consistent. Routines matter.",
	)
	require.NotEmpty(t, words)
	assert.Equal(t, "sleep", words[0])
	assert.Contains(t, words, "infant")
	assert.Contains(t, words, "routines")
	assert.NotContains(t, words, "when")
	assert.LessOrEqual(t, len(words), 10)
}
