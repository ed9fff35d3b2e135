package models

// Segment is one timed caption line. Start and Duration are expressed in
// seconds from the beginning of the video. Text is already entity-decoded,
// markup-stripped and whitespace-collapsed by the time a Segment exists.
type Segment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// End returns the moment the segment leaves the screen. It is derived for
// rendering; it is never stored independently.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// Valid reports whether the segment satisfies the model invariants.
func (s Segment) Valid() bool {
	return s.Start >= 0 && s.Duration > 0 && s.Text != ""
}

// CaptionTrack describes one caption stream offered by the platform before
// its content is downloaded. Instances live for the duration of a single
// request and are discarded after track selection.
type CaptionTrack struct {
	LanguageCode  string `json:"language"`
	DisplayName   string `json:"name,omitempty"`
	AutoGenerated bool   `json:"is_generated"`
	SourceURL     string `json:"-"`
}
