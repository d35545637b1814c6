package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	contentdomain "github.com/momta/momta/internal/content/domain"
)

func (s *Server) ListPublicResearch(c *gin.Context) {
	research, err := s.contentSvc.ListResearch(c.Request.Context(), contentdomain.ListFilter{PublishedOnly: true})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"research": research})
}

func (s *Server) GetPublicResearch(c *gin.Context) {
	item, err := s.contentSvc.GetResearchBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"research": item})
}

func (s *Server) ListAdminResearch(c *gin.Context) {
	research, err := s.contentSvc.ListResearch(c.Request.Context(), contentdomain.ListFilter{})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"research": research})
}

func (s *Server) GetAdminResearch(c *gin.Context) {
	item, err := s.contentSvc.GetResearchBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"research": item})
}

func (s *Server) CreateResearch(c *gin.Context) {
	var req contentdomain.CreateResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.contentSvc.CreateResearch(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"research": item})
}

func (s *Server) EditResearch(c *gin.Context) {
	var req contentdomain.EditResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	item, err := s.contentSvc.EditResearch(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"research": item})
}

func (s *Server) DeleteResearch(c *gin.Context) {
	if err := s.contentSvc.DeleteResearch(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	noContent(c)
}
