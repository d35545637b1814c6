package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 25 << 20

func (s *Server) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if file.Size > maxUploadBytes {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	src, err := file.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer src.Close()

	obj, err := s.media.Put(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		s.log.Error("media upload failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key":  obj.Key,
		"url":  obj.URL,
		"size": obj.Size,
	})
}

func (s *Server) ServeMedia(c *gin.Context) {
	key := c.Param("key")

	r, err := s.media.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			AbortWithError(c, ErrNotFound)
			return
		}
		AbortWithError(c, err)
		return
	}
	defer r.Close()

	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		c.Header("Content-Type", ct)
	}
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, r)
}
