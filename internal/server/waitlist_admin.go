package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	waitlistdomain "github.com/momta/momta/internal/waitlist/domain"
	"github.com/momta/momta/pkg/db/pagination"
)

func (s *Server) ListWaitlist(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.waitlistSvc.List(c.Request.Context(), waitlistdomain.ListRequest{
		Status:     c.Query("status"),
		Pagination: page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) WaitlistStats(c *gin.Context) {
	stats, err := s.waitlistSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type updateWaitlistStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateWaitlistStatus(c *gin.Context) {
	var req updateWaitlistStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entry, err := s.waitlistSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}
