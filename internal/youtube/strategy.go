package youtube

import (
	"context"

	"caption-resolver-backend/internal/models"
)

// Result is what a successful extraction attempt produces: the parsed
// segments, the track they came from, and every track the strategy
// discovered along the way.
type Result struct {
	Segments []models.Segment
	Track    models.CaptionTrack
	Tracks   []models.CaptionTrack
}

// Strategy is one independent method of obtaining captions for a video.
// Implementations return an error for every failure mode (unavailable
// video, no tracks, network trouble, unparseable payloads); the caller
// decides whether to fall back to the next strategy.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, videoID, language string) (*Result, error)
}

// captionTrackJSON is the platform's wire shape for one track, shared by
// the player API response and the watch-page metadata blob.
type captionTrackJSON struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

func (t captionTrackJSON) toModel() models.CaptionTrack {
	name := t.Name.SimpleText
	if name == "" && len(t.Name.Runs) > 0 {
		name = t.Name.Runs[0].Text
	}
	return models.CaptionTrack{
		LanguageCode: t.LanguageCode,
		DisplayName:  name,
		// "asr" marks automatic speech recognition tracks.
		AutoGenerated: t.Kind == "asr",
		SourceURL:     t.BaseURL,
	}
}

func toModelTracks(raw []captionTrackJSON) []models.CaptionTrack {
	tracks := make([]models.CaptionTrack, 0, len(raw))
	for _, t := range raw {
		if t.BaseURL == "" || t.LanguageCode == "" {
			continue
		}
		tracks = append(tracks, t.toModel())
	}
	return tracks
}
