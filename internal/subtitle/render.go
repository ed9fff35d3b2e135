package subtitle

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"caption-resolver-backend/internal/models"
)

// Render converts segments into the requested output format. An empty
// segment list renders as an empty string for the text formats and as an
// empty array for json.
func Render(segments []models.Segment, format models.SubtitleFormat) (string, error) {
	switch format {
	case models.FormatSRT:
		return renderSRT(segments), nil
	case models.FormatVTT:
		return renderVTT(segments), nil
	case models.FormatTXT:
		return renderTXT(segments), nil
	case models.FormatJSON:
		return renderJSON(segments)
	default:
		return "", fmt.Errorf("unsupported subtitle format %q", format)
	}
}

func renderSRT(segments []models.Segment) string {
	var b strings.Builder
	for i, s := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, formatTimestamp(s.Start, ','), formatTimestamp(s.End(), ','), s.Text)
	}
	return b.String()
}

func renderVTT(segments []models.Segment) string {
	if len(segments) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, s := range segments {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
			formatTimestamp(s.Start, '.'), formatTimestamp(s.End(), '.'), s.Text)
	}
	return b.String()
}

func renderTXT(segments []models.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, s.Text)
	}
	return strings.Join(lines, "\n")
}

func renderJSON(segments []models.Segment) (string, error) {
	if len(segments) == 0 {
		return "[]", nil
	}
	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatTimestamp renders seconds as HH:MM:SS<sep>mmm with sub-second
// precision rounded to milliseconds. Negative inputs clamp to zero.
func formatTimestamp(seconds float64, sep byte) string {
	ms := int64(math.Round(seconds * 1000))
	if ms < 0 {
		ms = 0
	}

	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	secs := (ms % 60000) / 1000
	millis := ms % 1000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}
