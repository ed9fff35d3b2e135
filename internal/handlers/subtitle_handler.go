package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"caption-resolver-backend/internal/models"
	"caption-resolver-backend/internal/service"
	"caption-resolver-backend/pkg/logger"
)

// contentTypes maps each output format to the Content-Type the rendered
// document is served with.
var contentTypes = map[models.SubtitleFormat]string{
	models.FormatSRT:  "application/x-subrip; charset=utf-8",
	models.FormatVTT:  "text/vtt; charset=utf-8",
	models.FormatTXT:  "text/plain; charset=utf-8",
	models.FormatJSON: "application/json; charset=utf-8",
}

type SubtitleHandler struct {
	captionService *service.CaptionService
	requestBudget  time.Duration
	exposeDetails  bool
}

func NewSubtitleHandler(captionService *service.CaptionService, requestBudget time.Duration, exposeDetails bool) *SubtitleHandler {
	return &SubtitleHandler{
		captionService: captionService,
		requestBudget:  requestBudget,
		exposeDetails:  exposeDetails,
	}
}

// Download resolves captions for a video and serves the rendered document
// as a file attachment.
func (h *SubtitleHandler) Download(c *gin.Context) {
	var req models.SubtitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid videoId is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestBudget)
	defer cancel()

	result, err := h.captionService.Resolve(ctx, req)
	if err != nil {
		h.renderError(c, req, err)
		return
	}

	contentType, ok := contentTypes[result.Format]
	if !ok {
		contentType = contentTypes[models.FormatTXT]
	}

	filename := fmt.Sprintf("%s_subtitles.%s", result.VideoID, result.Format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Caption-Language", result.Language)
	c.Data(http.StatusOK, contentType, []byte(result.Content))
}

func (h *SubtitleHandler) renderError(c *gin.Context, req models.SubtitleRequest, err error) {
	logger.WithContext(c.Request.Context()).WithError(err).
		WithField("video_id", req.VideoID).
		Error("Caption resolution failed")

	var notFound *service.NotFoundError
	switch {
	case errors.As(err, &notFound):
		body := gin.H{"error": "no captions found for this video"}
		if len(notFound.AvailableLanguages) > 0 {
			body["availableLanguages"] = notFound.AvailableLanguages
		}
		c.JSON(http.StatusNotFound, body)
	case errors.Is(err, service.ErrTimeout):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "caption extraction timed out"})
	default:
		body := gin.H{"error": "caption extraction failed"}
		if h.exposeDetails {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusBadGateway, body)
	}
}
