package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"caption-resolver-backend/internal/models"
	"caption-resolver-backend/internal/service"
	"caption-resolver-backend/pkg/logger"
)

type VideoInfoHandler struct {
	videoInfoService *service.VideoInfoService
}

func NewVideoInfoHandler(videoInfoService *service.VideoInfoService) *VideoInfoHandler {
	return &VideoInfoHandler{videoInfoService: videoInfoService}
}

// Lookup resolves basic metadata for a video URL.
func (h *VideoInfoHandler) Lookup(c *gin.Context) {
	var req models.VideoInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	info, err := h.videoInfoService.Lookup(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVideoURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized video URL"})
			return
		}
		logger.WithContext(c.Request.Context()).WithError(err).Error("Video info lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "video info lookup failed"})
		return
	}

	c.JSON(http.StatusOK, info)
}
