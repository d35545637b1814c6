package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	authdomain "github.com/momta/momta/internal/auth/domain"
	"github.com/momta/momta/internal/auth/session"
	"github.com/momta/momta/internal/config"
	"github.com/stretchr/testify/assert"
)

type fakeAuthService struct {
	user *authdomain.User
	err  error
}

func (f *fakeAuthService) CreateUser(context.Context, authdomain.CreateUserRequest) (*authdomain.User, error) {
	return nil, authdomain.ErrUserExists
}

func (f *fakeAuthService) Login(context.Context, authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	return nil, authdomain.ErrInvalidCredentials
}

func (f *fakeAuthService) Logout(context.Context, string) error { return nil }

func (f *fakeAuthService) Authenticate(context.Context, string) (*authdomain.User, *authdomain.Session, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.user, &authdomain.Session{UserID: f.user.ID}, nil
}

func (f *fakeAuthService) ChangePassword(context.Context, string, string) error { return nil }

func newGuardedServer(t *testing.T, authsvc authdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine:   engine,
		authsvc:  authsvc,
		sessions: session.NewManager(config.Config{}),
	}
	engine.GET("/admin/ping", s.AuthRequired(), s.AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return engine
}

func getWithSession(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequiredNoCookie(t *testing.T) {
	engine := newGuardedServer(t, &fakeAuthService{})

	rec := getWithSession(engine, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredBadSession(t *testing.T) {
	engine := newGuardedServer(t, &fakeAuthService{err: authdomain.ErrSessionExpired})

	rec := getWithSession(engine, "stale-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRequiredRejectsOrdinaryUser(t *testing.T) {
	engine := newGuardedServer(t, &fakeAuthService{
		user: &authdomain.User{Role: authdomain.RoleUser},
	})

	rec := getWithSession(engine, "valid-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRequiredAllowsAdmin(t *testing.T) {
	engine := newGuardedServer(t, &fakeAuthService{
		user: &authdomain.User{Role: authdomain.RoleAdmin},
	})

	rec := getWithSession(engine, "valid-token")
	assert.Equal(t, http.StatusOK, rec.Code)
}
