package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"caption-resolver-backend/internal/models"
	"caption-resolver-backend/internal/youtube"
	"caption-resolver-backend/pkg/logger"
	"caption-resolver-backend/pkg/validator"
)

const dataAPIEndpoint = "https://www.googleapis.com/youtube/v3/videos"

// ErrInvalidVideoURL means no video identifier could be recognized in the
// submitted URL.
var ErrInvalidVideoURL = errors.New("unrecognized video URL")

// videoIDPatterns covers the URL shapes users paste: full watch URLs,
// short links, embeds, and the bare path form.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:watch\?v=)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID pulls the 11-character video identifier out of a URL.
// Returns an empty string when none of the known shapes match.
func ExtractVideoID(rawURL string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil && validator.ValidVideoID(m[1]) {
			return m[1]
		}
	}
	return ""
}

// VideoInfoService builds basic video metadata from the identifier alone
// and, when a Data API key is configured, enriches it with the real title,
// description and statistics. Enrichment failures never fail the request.
type VideoInfoService struct {
	client *youtube.Client
	apiKey string
}

func NewVideoInfoService(client *youtube.Client, apiKey string) *VideoInfoService {
	return &VideoInfoService{client: client, apiKey: apiKey}
}

// HasAPIKey reports whether Data API enrichment is configured.
func (s *VideoInfoService) HasAPIKey() bool {
	return s.apiKey != ""
}

func (s *VideoInfoService) Lookup(ctx context.Context, rawURL string) (*models.VideoInfo, error) {
	videoID := ExtractVideoID(rawURL)
	if videoID == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVideoURL, rawURL)
	}

	info := &models.VideoInfo{
		VideoID:     videoID,
		Title:       fmt.Sprintf("Video %s", videoID),
		Description: "Full metadata is available when a Data API key is configured",
		Thumbnails: map[string]string{
			"maxresdefault": fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID),
			"hqdefault":     fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID),
			"mqdefault":     fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", videoID),
			"default":       fmt.Sprintf("https://img.youtube.com/vi/%s/default.jpg", videoID),
		},
		URL: "https://www.youtube.com/watch?v=" + videoID,
	}

	if s.apiKey != "" {
		s.enrich(ctx, info)
	}

	return info, nil
}

type dataAPIResponse struct {
	Items []struct {
		Snippet struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			Tags         []string `json:"tags"`
			ChannelTitle string   `json:"channelTitle"`
			PublishedAt  string   `json:"publishedAt"`
		} `json:"snippet"`
		Statistics map[string]string `json:"statistics"`
	} `json:"items"`
}

func (s *VideoInfoService) enrich(ctx context.Context, info *models.VideoInfo) {
	query := url.Values{}
	query.Set("id", info.VideoID)
	query.Set("part", "snippet,statistics")
	query.Set("key", s.apiKey)

	body, err := s.client.Get(ctx, dataAPIEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("video_id", info.VideoID).
			Warn("Data API enrichment failed, returning basic metadata")
		return
	}

	var resp dataAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Failed to decode Data API response")
		return
	}
	if len(resp.Items) == 0 {
		return
	}

	item := resp.Items[0]
	if item.Snippet.Title != "" {
		info.Title = item.Snippet.Title
	}
	if item.Snippet.Description != "" {
		info.Description = item.Snippet.Description
	}
	info.Tags = item.Snippet.Tags
	info.ChannelTitle = item.Snippet.ChannelTitle
	info.PublishedAt = item.Snippet.PublishedAt
	info.Statistics = item.Statistics
}
