package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	obsmetrics "github.com/momta/momta/internal/observability/metrics"
	waitlistdomain "github.com/momta/momta/internal/waitlist/domain"
	"go.uber.org/zap"
)

type subscribeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Subscribe is the public waitlist intake. Unlike the admin API it writes a
// fixed {error} response shape that the marketing site depends on.
func (s *Server) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.obsMetrics.ObserveSubscribe(obsmetrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := s.waitlistSvc.Register(c.Request.Context(), waitlistdomain.RegisterRequest{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		RemoteIdentity: c.ClientIP(),
	})
	if err != nil {
		s.writeSubscribeError(c, err)
		return
	}

	s.obsMetrics.ObserveSubscribe(obsmetrics.OutcomeSuccess)
	c.JSON(http.StatusOK, gin.H{
		"message":       result.Message,
		"discount_code": result.DiscountCode,
	})
}

func (s *Server) writeSubscribeError(c *gin.Context, err error) {
	var rateLimited *waitlistdomain.RateLimitedError

	switch {
	case errors.Is(err, waitlistdomain.ErrInvalidName):
		s.obsMetrics.ObserveSubscribe(obsmetrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
	case errors.Is(err, waitlistdomain.ErrInvalidEmail):
		s.obsMetrics.ObserveSubscribe(obsmetrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
	case errors.Is(err, waitlistdomain.ErrAlreadyRegistered):
		s.obsMetrics.ObserveSubscribe(obsmetrics.OutcomeDuplicate)
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.As(err, &rateLimited):
		s.obsMetrics.ObserveSubscribe(obsmetrics.OutcomeRateLimited)
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(rateLimited.ResetAt)))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
	default:
		s.obsMetrics.ObserveSubscribe(obsmetrics.OutcomeError)
		s.log.Error("subscribe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}

func retryAfterSeconds(resetAt time.Time) int {
	secs := int(time.Until(resetAt).Seconds() + 0.999)
	if secs < 1 {
		secs = 1
	}
	return secs
}
