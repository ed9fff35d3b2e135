package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"caption-resolver-backend/internal/subtitle"
	"caption-resolver-backend/pkg/logger"
)

const defaultPlayerEndpoint = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"

// The ANDROID client receives caption metadata without the anti-bot
// hurdles the WEB client faces.
const (
	androidClientName    = "ANDROID"
	androidClientVersion = "19.09.37"
	androidSDKVersion    = 30
)

// PlayerAPIOptions configures the player API strategy. Endpoint exists so
// tests can point the strategy at a local server.
type PlayerAPIOptions struct {
	Endpoint string
}

// PlayerAPIStrategy asks the platform's internal player endpoint for the
// caption track list, then downloads the selected track as a JSON event
// stream. This is the primary strategy: a single small POST instead of a
// full watch-page download.
type PlayerAPIStrategy struct {
	client   *Client
	endpoint string
}

func NewPlayerAPIStrategy(client *Client, opts PlayerAPIOptions) *PlayerAPIStrategy {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = defaultPlayerEndpoint
	}
	return &PlayerAPIStrategy{client: client, endpoint: endpoint}
}

func (s *PlayerAPIStrategy) Name() string { return "player-api" }

type playerRequest struct {
	Context struct {
		Client struct {
			ClientName        string `json:"clientName"`
			ClientVersion     string `json:"clientVersion"`
			AndroidSDKVersion int    `json:"androidSdkVersion"`
			HL                string `json:"hl"`
		} `json:"client"`
	} `json:"context"`
	VideoID string `json:"videoId"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrackJSON `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

func (s *PlayerAPIStrategy) Attempt(ctx context.Context, videoID, language string) (*Result, error) {
	var req playerRequest
	req.Context.Client.ClientName = androidClientName
	req.Context.Client.ClientVersion = androidClientVersion
	req.Context.Client.AndroidSDKVersion = androidSDKVersion
	req.Context.Client.HL = "en"
	req.VideoID = videoID

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("User-Agent", fmt.Sprintf("com.google.android.youtube/%s (Linux; U; Android 11)", androidClientVersion))

	body, err := s.client.PostJSON(ctx, s.endpoint, payload, header)
	if err != nil {
		return nil, fmt.Errorf("player request: %w", err)
	}

	var resp playerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding player response: %w", err)
	}

	switch resp.PlayabilityStatus.Status {
	case "", "OK":
	case "LOGIN_REQUIRED", "AGE_CHECK_REQUIRED":
		return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, resp.PlayabilityStatus.Status)
	case "ERROR", "UNPLAYABLE":
		return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, resp.PlayabilityStatus.Reason)
	default:
		return nil, fmt.Errorf("unexpected playability status %q", resp.PlayabilityStatus.Status)
	}

	tracks := toModelTracks(resp.Captions.Renderer.CaptionTracks)
	if len(tracks) == 0 {
		return nil, &NoCaptionsError{}
	}

	selected := SelectTrack(tracks, language)
	logger.WithContext(ctx).WithField("language", selected.LanguageCode).
		Debug("Player API selected caption track")

	// json3 gives millisecond offsets and per-run text; richer than the
	// default timed-XML rendition of the same track.
	trackURL := selected.SourceURL + "&fmt=json3"
	if !strings.Contains(selected.SourceURL, "?") {
		trackURL = selected.SourceURL + "?fmt=json3"
	}
	raw, err := s.client.Get(ctx, trackURL, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading caption track: %w", err)
	}

	segments, err := subtitle.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing caption track: %w", err)
	}
	if len(segments) == 0 {
		return nil, &NoCaptionsError{Available: tracks}
	}

	return &Result{Segments: segments, Track: *selected, Tracks: tracks}, nil
}

var _ Strategy = (*PlayerAPIStrategy)(nil)
