package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/momta/momta/internal/auth/domain"
	"github.com/momta/momta/internal/auth/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Session{}))

	repo, sessionRepo := repository.New(db)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repo,
		SessionRepo: sessionRepo,
	})
	return svc, db
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "  Alice@Example.COM ",
		Password: "strong-password",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "Alice", user.DisplayName)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "alice@example.com",
		Password: "strong-password",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestCreateUserRejectsWeakInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "not-an-email", Password: "strong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "bob@example.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown roles collapse to the ordinary user role.
	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "bob@example.com", Password: "strong-password", Role: "superuser"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "correct-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:     "alice@example.com",
		Password:  "correct-password",
		UserAgent: "test-agent",
		IPAddress: "203.0.113.7",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RawToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.Equal(t, created.ID.String(), result.User.ID)

	user, session, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, created.ID, session.UserID)
	assert.Equal(t, "test-agent", session.UserAgent)

	_, _, err = svc.Authenticate(ctx, "bogus-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, _, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)

	assert.ErrorIs(t, svc.Logout(ctx, "bogus-token"), domain.ErrInvalidSession)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&domain.Session{}).Where("1 = 1").Update("expires_at", past).Error)

	_, _, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "alice@example.com",
		Password: "old-password-1",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID.String(), "short"), domain.ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, user.ID.String(), "new-password-1"))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "old-password-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "new-password-1"})
	assert.NoError(t, err)
}
