package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"caption-resolver-backend/internal/service"
)

type StatusHandler struct {
	captionService   *service.CaptionService
	videoInfoService *service.VideoInfoService
}

func NewStatusHandler(captionService *service.CaptionService, videoInfoService *service.VideoInfoService) *StatusHandler {
	return &StatusHandler{
		captionService:   captionService,
		videoInfoService: videoInfoService,
	}
}

// Status reports the service configuration a client can act on: which
// extraction strategies are wired and whether metadata enrichment works.
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"strategies":    h.captionService.StrategyNames(),
		"hasYouTubeKey": h.videoInfoService.HasAPIKey(),
	})
}
