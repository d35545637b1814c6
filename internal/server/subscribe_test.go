package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	obsmetrics "github.com/momta/momta/internal/observability/metrics"
	waitlistdomain "github.com/momta/momta/internal/waitlist/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWaitlistService struct {
	registerErr error
	lastReq     waitlistdomain.RegisterRequest
}

func (f *fakeWaitlistService) Register(_ context.Context, req waitlistdomain.RegisterRequest) (*waitlistdomain.RegisterResult, error) {
	f.lastReq = req
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &waitlistdomain.RegisterResult{
		Message:      "Successfully joined the waitlist!",
		DiscountCode: "MOMTA2028-TEST",
	}, nil
}

func (f *fakeWaitlistService) List(context.Context, waitlistdomain.ListRequest) (*waitlistdomain.ListResponse, error) {
	return &waitlistdomain.ListResponse{}, nil
}

func (f *fakeWaitlistService) Stats(context.Context) (*waitlistdomain.Stats, error) {
	return &waitlistdomain.Stats{}, nil
}

func (f *fakeWaitlistService) UpdateStatus(context.Context, string, string) (*waitlistdomain.EntryResponse, error) {
	return nil, waitlistdomain.ErrNotFound
}

func newSubscribeServer(t *testing.T, svc waitlistdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine:      engine,
		log:         zap.NewNop(),
		waitlistSvc: svc,
		obsMetrics:  (*obsmetrics.Metrics)(nil),
	}
	s.registerSubscribeRoutes()
	return engine
}

func postSubscribe(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSubscribeSuccess(t *testing.T) {
	fake := &fakeWaitlistService{}
	engine := newSubscribeServer(t, fake)

	rec := postSubscribe(engine, `{"name":"Jo","email":"jo@x.com","phone":"+1555000111"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"message":"Successfully joined the waitlist!","discount_code":"MOMTA2028-TEST"}`, rec.Body.String())
	assert.Equal(t, "Jo", fake.lastReq.Name)
	assert.NotEmpty(t, fake.lastReq.RemoteIdentity)
}

func TestSubscribeValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		message string
	}{
		{"missing name", waitlistdomain.ErrInvalidName, "Name is required"},
		{"bad email", waitlistdomain.ErrInvalidEmail, "Valid email is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newSubscribeServer(t, &fakeWaitlistService{registerErr: tc.err})

			rec := postSubscribe(engine, `{"name":"x","email":"y"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"`+tc.message+`"}`, rec.Body.String())
		})
	}
}

func TestSubscribeMalformedBody(t *testing.T) {
	engine := newSubscribeServer(t, &fakeWaitlistService{})

	rec := postSubscribe(engine, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}

func TestSubscribeDuplicate(t *testing.T) {
	engine := newSubscribeServer(t, &fakeWaitlistService{registerErr: waitlistdomain.ErrAlreadyRegistered})

	rec := postSubscribe(engine, `{"name":"Jo","email":"jo@x.com"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, rec.Body.String())
}

func TestSubscribeRateLimited(t *testing.T) {
	resetAt := time.Now().Add(90 * time.Second)
	engine := newSubscribeServer(t, &fakeWaitlistService{
		registerErr: &waitlistdomain.RateLimitedError{ResetAt: resetAt},
	})

	rec := postSubscribe(engine, `{"name":"Jo","email":"jo@x.com"}`)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later."}`, rec.Body.String())

	retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 91)
}

func TestSubscribeStoreFailure(t *testing.T) {
	engine := newSubscribeServer(t, &fakeWaitlistService{registerErr: context.DeadlineExceeded})

	rec := postSubscribe(engine, `{"name":"Jo","email":"jo@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Something went wrong. Please try again."}`, rec.Body.String())
}

func TestSubscribePreflight(t *testing.T) {
	engine := newSubscribeServer(t, &fakeWaitlistService{})

	req := httptest.NewRequest(http.MethodOptions, "/subscribe", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}
