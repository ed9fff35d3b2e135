package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"caption-resolver-backend/internal/config"
	"caption-resolver-backend/internal/handlers"
	"caption-resolver-backend/internal/middleware"
	"caption-resolver-backend/internal/service"
	"caption-resolver-backend/internal/youtube"
	"caption-resolver-backend/pkg/cache"
	"caption-resolver-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	cache       *cache.Cache
	rateLimiter *middleware.RateLimitManager

	services serviceContainer
	handlers handlerContainer

	router *gin.Engine
	server *http.Server
}

type serviceContainer struct {
	Caption   *service.CaptionService
	VideoInfo *service.VideoInfoService
}

type handlerContainer struct {
	Subtitle  *handlers.SubtitleHandler
	VideoInfo *handlers.VideoInfoHandler
	Status    *handlers.StatusHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.rateLimiter = middleware.NewRateLimitManager(context.Background())
	app.initServices()
	app.initHandlers()
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.RequestBudget + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.rateLimiter != nil {
		if err := a.rateLimiter.Shutdown(); err != nil {
			logger.Error(err, "Failed to stop rate limiter", nil)
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initCache() error {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	a.cache = c
	return nil
}

func (a *Application) initServices() {
	client := youtube.NewClient(youtube.ClientConfig{
		UserAgent:  a.cfg.UserAgent,
		Timeout:    a.cfg.FetchTimeout,
		MaxRetries: a.cfg.MaxRetries,
		RetryBase:  a.cfg.RetryBaseDelay,
		RetryCap:   a.cfg.RetryMaxDelay,
	})

	strategies := []youtube.Strategy{
		youtube.NewPlayerAPIStrategy(client, youtube.PlayerAPIOptions{}),
		youtube.NewWatchPageStrategy(client, youtube.WatchPageOptions{}),
	}

	a.services = serviceContainer{
		Caption:   service.NewCaptionService(strategies, a.cache, a.cfg),
		VideoInfo: service.NewVideoInfoService(client, a.cfg.YouTubeAPIKey),
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Subtitle:  handlers.NewSubtitleHandler(a.services.Caption, a.cfg.RequestBudget, !a.cfg.IsProduction()),
		VideoInfo: handlers.NewVideoInfoHandler(a.services.VideoInfo),
		Status:    handlers.NewStatusHandler(a.services.Caption, a.services.VideoInfo),
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware(a.rateLimiter, a.cfg))
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:              a.cfg.CORSOrigins,
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:             []string{"Content-Length", "Content-Disposition", "X-Caption-Language", "X-Request-ID"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api")
	{
		api.POST("/subtitles", a.handlers.Subtitle.Download)
		api.POST("/video-info", a.handlers.VideoInfo.Lookup)
		api.GET("/status", a.handlers.Status.Status)
	}

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	a.router = router
}
