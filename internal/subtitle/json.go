package subtitle

import (
	"encoding/json"
	"strings"

	"caption-resolver-backend/internal/models"
)

// jsonEvents mirrors the platform's JSON caption stream: a top-level
// "events" list holding millisecond offsets and a list of text runs per
// event. Unknown fields are plentiful and deliberately ignored.
type jsonEvents struct {
	Events []jsonEvent `json:"events"`
}

type jsonEvent struct {
	StartMs    *int64    `json:"tStartMs"`
	DurationMs *int64    `json:"dDurationMs"`
	Segs       []jsonSeg `json:"segs"`
}

type jsonSeg struct {
	Utf8 string `json:"utf8"`
}

// JSONEventParser handles both the platform's event stream and the plain
// segment array this service itself renders for the json output format,
// which keeps that format lossless end to end.
type JSONEventParser struct{}

func (JSONEventParser) Parse(raw string) []models.Segment {
	trimmed := strings.TrimLeft(raw, " \t\r\n\ufeff")
	if strings.HasPrefix(trimmed, "[") {
		return parseSegmentArray(trimmed)
	}

	var doc jsonEvents
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}

	segments := make([]models.Segment, 0, len(doc.Events))
	for _, ev := range doc.Events {
		if ev.StartMs == nil || len(ev.Segs) == 0 {
			continue
		}

		var parts []string
		for _, seg := range ev.Segs {
			parts = append(parts, seg.Utf8)
		}

		dur := defaultDuration
		if ev.DurationMs != nil && *ev.DurationMs > 0 {
			dur = float64(*ev.DurationMs) / 1000
		}

		s := models.Segment{
			Start:    float64(*ev.StartMs) / 1000,
			Duration: dur,
			Text:     CleanText(strings.Join(parts, "")),
		}
		if validSegment(s) {
			segments = append(segments, s)
		}
	}
	return segments
}

func parseSegmentArray(raw string) []models.Segment {
	var decoded []models.Segment
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}

	segments := make([]models.Segment, 0, len(decoded))
	for _, s := range decoded {
		if s.Duration <= 0 {
			s.Duration = defaultDuration
		}
		s.Text = CleanText(s.Text)
		if validSegment(s) {
			segments = append(segments, s)
		}
	}
	return segments
}
