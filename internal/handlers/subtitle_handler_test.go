package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"caption-resolver-backend/internal/config"
	"caption-resolver-backend/internal/models"
	"caption-resolver-backend/internal/service"
	"caption-resolver-backend/internal/youtube"
	"caption-resolver-backend/pkg/cache"
	"caption-resolver-backend/pkg/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Init()
}

type fakeStrategy struct {
	result *youtube.Result
	err    error
	calls  int
}

func (s *fakeStrategy) Name() string { return "fake" }

func (s *fakeStrategy) Attempt(ctx context.Context, videoID, language string) (*youtube.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestRouter(strategies ...youtube.Strategy) *gin.Engine {
	cfg := &config.Config{DefaultLanguage: "fr", DefaultFormat: "srt"}
	svc := service.NewCaptionService(strategies, &cache.Cache{}, cfg)
	handler := NewSubtitleHandler(svc, 5*time.Second, true)

	router := gin.New()
	router.POST("/api/subtitles", handler.Download)
	return router
}

func postSubtitles(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/subtitles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func frenchResult() *youtube.Result {
	track := models.CaptionTrack{LanguageCode: "fr", DisplayName: "French"}
	return &youtube.Result{
		Segments: []models.Segment{
			{Start: 0, Duration: 1.5, Text: "Bonjour"},
			{Start: 1.5, Duration: 2, Text: "le monde"},
		},
		Track:  track,
		Tracks: []models.CaptionTrack{track},
	}
}

func TestDownloadServesSRTAttachment(t *testing.T) {
	strategy := &fakeStrategy{result: frenchResult()}
	router := newTestRouter(strategy)

	w := postSubtitles(router, `{"videoId":"dQw4w9WgXcQ"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "application/x-subrip; charset=utf-8" {
		t.Errorf("content type = %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="dQw4w9WgXcQ_subtitles.srt"` {
		t.Errorf("content disposition = %q", got)
	}
	if got := w.Header().Get("X-Caption-Language"); got != "fr" {
		t.Errorf("caption language header = %q", got)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nBonjour\n\n2\n00:00:01,500 --> 00:00:03,500\nle monde\n\n"
	if w.Body.String() != want {
		t.Errorf("body:\n%s\nwant:\n%s", w.Body.String(), want)
	}
}

func TestDownloadInvalidVideoIDRejectedBeforeExtraction(t *testing.T) {
	strategy := &fakeStrategy{result: frenchResult()}
	router := newTestRouter(strategy)

	for _, body := range []string{
		`{"videoId":"short"}`,
		`{"videoId":"has spaces!!"}`,
		`{"format":"srt"}`,
		`{"videoId":"dQw4w9WgXcQ","format":"doc"}`,
		`{"videoId":"dQw4w9WgXcQ","language":"not a language"}`,
		`not json`,
	} {
		w := postSubtitles(router, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}

	if strategy.calls != 0 {
		t.Errorf("strategy called %d times for invalid requests, want 0", strategy.calls)
	}
}

func TestDownloadSubstitutedLanguageIsExposed(t *testing.T) {
	// The only track is English; a French request is served from it with
	// the substitution visible in the header.
	track := models.CaptionTrack{LanguageCode: "en", DisplayName: "English"}
	strategy := &fakeStrategy{result: &youtube.Result{
		Segments: []models.Segment{{Start: 0, Duration: 1, Text: "Hello"}},
		Track:    track,
		Tracks:   []models.CaptionTrack{track},
	}}
	router := newTestRouter(strategy)

	w := postSubtitles(router, `{"videoId":"dQw4w9WgXcQ","language":"fr"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("X-Caption-Language"); got != "en" {
		t.Errorf("caption language header = %q, want en", got)
	}
}

func TestDownloadNoCaptionsIs404WithAvailableLanguages(t *testing.T) {
	strategy := &fakeStrategy{err: &youtube.NoCaptionsError{
		Available: []models.CaptionTrack{{LanguageCode: "de", DisplayName: "German"}},
	}}
	router := newTestRouter(strategy)

	w := postSubtitles(router, `{"videoId":"dQw4w9WgXcQ"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var body struct {
		Error              string                `json:"error"`
		AvailableLanguages []models.CaptionTrack `json:"availableLanguages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.AvailableLanguages) != 1 || body.AvailableLanguages[0].LanguageCode != "de" {
		t.Errorf("available languages = %+v", body.AvailableLanguages)
	}
}

func TestDownloadTimeoutIs408(t *testing.T) {
	strategy := &fakeStrategy{err: fmt.Errorf("fetching: %w", context.DeadlineExceeded)}
	router := newTestRouter(strategy)

	w := postSubtitles(router, `{"videoId":"dQw4w9WgXcQ"}`)
	if w.Code != http.StatusRequestTimeout {
		t.Fatalf("status = %d, want 408", w.Code)
	}
}

func TestDownloadUpstreamFailureIs502(t *testing.T) {
	strategy := &fakeStrategy{err: errors.New("connection reset")}
	router := newTestRouter(strategy)

	w := postSubtitles(router, `{"videoId":"dQw4w9WgXcQ"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(w.Body.String(), "connection reset") {
		t.Errorf("details missing from development-mode body: %s", w.Body.String())
	}
}

func TestDownloadFormats(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		wantBody    string
	}{
		{"vtt", "text/vtt; charset=utf-8", "WEBVTT\n\n00:00:00.000 --> 00:00:01.500\nBonjour\n\n00:00:01.500 --> 00:00:03.500\nle monde\n\n"},
		{"txt", "text/plain; charset=utf-8", "Bonjour\nle monde"},
	}

	for _, tt := range tests {
		router := newTestRouter(&fakeStrategy{result: frenchResult()})
		w := postSubtitles(router, fmt.Sprintf(`{"videoId":"dQw4w9WgXcQ","format":"%s"}`, tt.format))

		if w.Code != http.StatusOK {
			t.Fatalf("format %s: status = %d", tt.format, w.Code)
		}
		if got := w.Header().Get("Content-Type"); got != tt.contentType {
			t.Errorf("format %s: content type = %q", tt.format, got)
		}
		if w.Body.String() != tt.wantBody {
			t.Errorf("format %s: body = %q, want %q", tt.format, w.Body.String(), tt.wantBody)
		}
	}
}
