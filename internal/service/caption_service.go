package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"caption-resolver-backend/internal/config"
	"caption-resolver-backend/internal/models"
	"caption-resolver-backend/internal/subtitle"
	"caption-resolver-backend/internal/youtube"
	"caption-resolver-backend/pkg/cache"
	"caption-resolver-backend/pkg/logger"
)

var (
	metricsOnce            sync.Once
	attemptsTotal          *prometheus.CounterVec
	attemptDurationSeconds *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caption_resolver",
			Subsystem: "extraction",
			Name:      "attempts_total",
			Help:      "Extraction attempts by strategy and outcome",
		}, []string{"strategy", "status"})

		attemptDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "caption_resolver",
			Subsystem: "extraction",
			Name:      "attempt_duration_seconds",
			Help:      "Extraction attempt duration by strategy",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"})
	})
}

// CaptionService turns a subtitle request into a rendered caption
// document. Strategies are tried in order; the first one to produce
// segments wins and the rest are never contacted.
type CaptionService struct {
	strategies      []youtube.Strategy
	cache           *cache.Cache
	defaultLanguage string
	defaultFormat   string
}

func NewCaptionService(strategies []youtube.Strategy, cache *cache.Cache, cfg *config.Config) *CaptionService {
	initMetrics()
	return &CaptionService{
		strategies:      strategies,
		cache:           cache,
		defaultLanguage: cfg.DefaultLanguage,
		defaultFormat:   cfg.DefaultFormat,
	}
}

// StrategyNames reports the configured extraction order.
func (s *CaptionService) StrategyNames() []string {
	names := make([]string, 0, len(s.strategies))
	for _, strat := range s.strategies {
		names = append(names, strat.Name())
	}
	return names
}

func (s *CaptionService) Resolve(ctx context.Context, req models.SubtitleRequest) (*models.SubtitleResult, error) {
	language := req.Language
	if language == "" {
		language = s.defaultLanguage
	}
	format := models.SubtitleFormat(req.Format)
	if format == "" {
		format = models.SubtitleFormat(s.defaultFormat)
	}

	var cached models.SubtitleResult
	if err := s.cache.GetCachedCaption(req.VideoID, language, string(format), &cached); err == nil {
		logger.WithContext(ctx).WithField("video_id", req.VideoID).Debug("Caption cache hit")
		return &cached, nil
	}

	var (
		notFound *NotFoundError
		timedOut bool
		lastErr  error
	)

	for _, strat := range s.strategies {
		if ctx.Err() != nil {
			timedOut = true
			break
		}

		started := time.Now()
		extracted, err := strat.Attempt(ctx, req.VideoID, language)
		attemptDurationSeconds.WithLabelValues(strat.Name()).Observe(time.Since(started).Seconds())

		if err == nil {
			attemptsTotal.WithLabelValues(strat.Name(), "success").Inc()
			return s.finish(ctx, req.VideoID, language, format, extracted)
		}

		attemptsTotal.WithLabelValues(strat.Name(), attemptStatus(err)).Inc()
		logger.WithContext(ctx).WithError(&youtube.StrategyError{Strategy: strat.Name(), Err: err}).
			WithField("video_id", req.VideoID).
			Warn("Extraction strategy failed, trying next")

		var noCaptions *youtube.NoCaptionsError
		switch {
		case errors.As(err, &noCaptions):
			if notFound == nil {
				notFound = &NotFoundError{VideoID: req.VideoID}
			}
			if len(notFound.AvailableLanguages) == 0 {
				notFound.AvailableLanguages = noCaptions.Available
			}
		case errors.Is(err, youtube.ErrVideoUnavailable):
			if notFound == nil {
				notFound = &NotFoundError{VideoID: req.VideoID}
			}
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			timedOut = true
		default:
			lastErr = err
		}
	}

	// A definitive "no captions exist" answer from any strategy outranks
	// transient failures from the others.
	if notFound != nil {
		return nil, notFound
	}
	if timedOut {
		return nil, ErrTimeout
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, lastErr)
	}
	return nil, ErrUpstream
}

func (s *CaptionService) finish(ctx context.Context, videoID, requestedLanguage string, format models.SubtitleFormat, extracted *youtube.Result) (*models.SubtitleResult, error) {
	content, err := subtitle.Render(extracted.Segments, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	result := &models.SubtitleResult{
		VideoID:            videoID,
		Language:           extracted.Track.LanguageCode,
		Format:             format,
		Content:            content,
		SegmentCount:       len(extracted.Segments),
		AvailableLanguages: extracted.Tracks,
	}

	// Keyed by the requested language, not the served one, so a repeat
	// request for an unavailable language still hits the cache.
	if err := s.cache.CacheCaption(videoID, requestedLanguage, string(format), result); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Failed to cache caption document")
	}

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"video_id": videoID,
		"language": result.Language,
		"format":   format,
		"segments": result.SegmentCount,
	}).Info("Caption document resolved")

	return result, nil
}

func attemptStatus(err error) string {
	var noCaptions *youtube.NoCaptionsError
	switch {
	case errors.As(err, &noCaptions):
		return "no_captions"
	case errors.Is(err, youtube.ErrVideoUnavailable):
		return "unavailable"
	case errors.Is(err, youtube.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}
