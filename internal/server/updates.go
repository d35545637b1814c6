package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	contentdomain "github.com/momta/momta/internal/content/domain"
)

func (s *Server) ListPublicUpdates(c *gin.Context) {
	filter := contentdomain.ListFilter{
		PublishedOnly: true,
		FeaturedOnly:  c.Query("featured") == "true",
	}

	updates, err := s.contentSvc.ListUpdates(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updates": updates})
}

func (s *Server) GetPublicUpdate(c *gin.Context) {
	update, err := s.contentSvc.GetUpdateBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"update": update})
}

func (s *Server) ListAdminUpdates(c *gin.Context) {
	updates, err := s.contentSvc.ListUpdates(c.Request.Context(), contentdomain.ListFilter{})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updates": updates})
}

func (s *Server) GetAdminUpdate(c *gin.Context) {
	update, err := s.contentSvc.GetUpdateBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"update": update})
}

func (s *Server) CreateUpdate(c *gin.Context) {
	var req contentdomain.CreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	update, err := s.contentSvc.CreateUpdate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"update": update})
}

func (s *Server) EditUpdate(c *gin.Context) {
	var req contentdomain.EditUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	update, err := s.contentSvc.EditUpdate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"update": update})
}

func (s *Server) DeleteUpdate(c *gin.Context) {
	if err := s.contentSvc.DeleteUpdate(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	noContent(c)
}
