package models

// SubtitleFormat is the closed set of output formats the renderer supports.
type SubtitleFormat string

const (
	FormatSRT  SubtitleFormat = "srt"
	FormatVTT  SubtitleFormat = "vtt"
	FormatTXT  SubtitleFormat = "txt"
	FormatJSON SubtitleFormat = "json"
)

// SubtitleRequest is the body of POST /api/subtitles. VideoID must match
// the platform's fixed-length identifier pattern; it is validated before
// any network call is made.
type SubtitleRequest struct {
	VideoID  string `json:"videoId" binding:"required,video_id"`
	Format   string `json:"format" binding:"omitempty,oneof=srt vtt txt json"`
	Language string `json:"language" binding:"omitempty,lang_code"`
}

// SubtitleResult is a fully rendered caption document plus the metadata a
// handler needs to build the response.
type SubtitleResult struct {
	VideoID            string         `json:"videoId"`
	Language           string         `json:"language"`
	Format             SubtitleFormat `json:"format"`
	Content            string         `json:"content"`
	SegmentCount       int            `json:"segmentCount"`
	AvailableLanguages []CaptionTrack `json:"availableLanguages,omitempty"`
}

// VideoInfoRequest is the body of POST /api/video-info.
type VideoInfoRequest struct {
	URL string `json:"url" binding:"required"`
}

// VideoInfo is the metadata returned for a video. Fields past Thumbnails
// are only populated when a Data API key is configured.
type VideoInfo struct {
	VideoID      string            `json:"videoId"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	Thumbnails   map[string]string `json:"thumbnails"`
	URL          string            `json:"url"`
	Tags         []string          `json:"tags,omitempty"`
	ChannelTitle string            `json:"channelTitle,omitempty"`
	PublishedAt  string            `json:"publishedAt,omitempty"`
	Statistics   map[string]string `json:"statistics,omitempty"`
}
