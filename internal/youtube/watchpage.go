package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"caption-resolver-backend/internal/subtitle"
	"caption-resolver-backend/pkg/logger"
)

const defaultWatchBase = "https://www.youtube.com/watch?v="

// captionsNeedle marks the start of the player caption metadata embedded
// in the watch-page script. The blob is not a stable wire contract, so we
// locate it by substring and let the JSON decoder stop at its end.
const captionsNeedle = `"captions":`

// WatchPageOptions configures the watch-page strategy. BaseURL exists so
// tests can point the strategy at a local server.
type WatchPageOptions struct {
	BaseURL string
}

// WatchPageStrategy downloads the public watch page, digs the caption
// track list out of the embedded player metadata, then downloads the
// selected track in its default timed-XML rendition. Secondary strategy:
// heavier than the player API but survives its outages.
type WatchPageStrategy struct {
	client  *Client
	baseURL string
}

func NewWatchPageStrategy(client *Client, opts WatchPageOptions) *WatchPageStrategy {
	base := opts.BaseURL
	if base == "" {
		base = defaultWatchBase
	}
	return &WatchPageStrategy{client: client, baseURL: base}
}

func (s *WatchPageStrategy) Name() string { return "watch-page" }

func (s *WatchPageStrategy) Attempt(ctx context.Context, videoID, language string) (*Result, error) {
	page, err := s.client.Get(ctx, s.baseURL+videoID, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching watch page: %w", err)
	}

	rawTracks, err := extractCaptionTracks(page, videoID)
	if err != nil {
		return nil, err
	}

	tracks := toModelTracks(rawTracks)
	if len(tracks) == 0 {
		return nil, &NoCaptionsError{}
	}

	selected := SelectTrack(tracks, language)
	logger.WithContext(ctx).WithField("language", selected.LanguageCode).
		Debug("Watch page selected caption track")

	raw, err := s.client.Get(ctx, selected.SourceURL, nil)
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

// extractCaptionTracks locates the caption metadata blob in the page and
// decodes the track list. A json.Decoder reads exactly one JSON value, so
// the script garbage after the blob is ignored.
func extractCaptionTracks(page []byte, videoID string) ([]captionTrackJSON, error) {
	i := bytes.Index(page, []byte(captionsNeedle))
	if i < 0 {
		if bytes.Contains(page, []byte(`class="g-recaptcha"`)) {
			return nil, ErrRateLimited
		}
		if !bytes.Contains(page, []byte(`playabilityStatus`)) {
			return nil, fmt.Errorf("%w: video %s", ErrVideoUnavailable, videoID)
		}
		return nil, &NoCaptionsError{}
	}

	var data struct {
		Renderer struct {
			CaptionTracks []captionTrackJSON `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}

	dec := json.NewDecoder(bytes.NewReader(page[i+len(captionsNeedle):]))
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding caption metadata: %w", err)
	}

	return data.Renderer.CaptionTracks, nil
}

var _ Strategy = (*WatchPageStrategy)(nil)
