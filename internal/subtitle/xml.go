package subtitle

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strconv"

	"caption-resolver-backend/internal/models"
	"caption-resolver-backend/pkg/logger"
)

// timedTranscript mirrors the platform's timed-text XML:
//
//	<transcript>
//	  <text start="3285.28" dur="4.88">surprised you with how they comport</text>
//	</transcript>
//
// Attributes are decoded as strings so one malformed timestamp skips a
// single element instead of aborting the whole document.
type timedTranscript struct {
	XMLName xml.Name    `xml:"transcript"`
	Texts   []timedText `xml:"text"`
}

type timedText struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",innerxml"`
}

// salvagePattern recovers timed elements from payloads encoding/xml
// rejects outright. Last resort only.
var salvagePattern = regexp.MustCompile(`(?s)<text start="([^"]+)"(?:[^>]*?dur="([^"]+)")?[^>]*>(.*?)</text>`)

// TimedXMLParser handles the platform's timed-text XML format.
type TimedXMLParser struct{}

func (TimedXMLParser) Parse(raw string) []models.Segment {
	dec := xml.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.Entity = xml.HTMLEntity

	var doc timedTranscript
	if err := dec.Decode(&doc); err != nil {
		logger.Warn("Timed-XML decode failed, falling back to regex salvage", map[string]interface{}{
			"error": err.Error(),
		})
		return salvageTimedXML(raw)
	}

	segments := make([]models.Segment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		if s, ok := buildSegment(t.Start, t.Dur, t.Body); ok {
			segments = append(segments, s)
		}
	}
	return segments
}

func salvageTimedXML(raw string) []models.Segment {
	matches := salvagePattern.FindAllStringSubmatch(raw, -1)
	segments := make([]models.Segment, 0, len(matches))
	for _, m := range matches {
		if s, ok := buildSegment(m[1], m[2], m[3]); ok {
			segments = append(segments, s)
		}
	}
	return segments
}

func buildSegment(startAttr, durAttr, body string) (models.Segment, bool) {
	start, err := strconv.ParseFloat(startAttr, 64)
	if err != nil {
		return models.Segment{}, false
	}

	dur := defaultDuration
	if durAttr != "" {
		parsed, err := strconv.ParseFloat(durAttr, 64)
		if err != nil {
			return models.Segment{}, false
		}
		if parsed > 0 {
			dur = parsed
		}
	}

	s := models.Segment{Start: start, Duration: dur, Text: CleanText(body)}
	if !validSegment(s) {
		return models.Segment{}, false
	}
	return s, true
}
