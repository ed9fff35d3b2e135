package subtitle

import (
	"errors"
	"strings"

	"caption-resolver-backend/internal/models"
	"caption-resolver-backend/pkg/logger"
)

// Upstream caption payloads are unversioned and change shape without
// notice, so parsing never fails hard: malformed segments are skipped and
// an empty result simply means "no segments".

// Shape tags the wire format a payload was parsed as.
type Shape string

const (
	ShapeTimedXML Shape = "timed-xml"
	ShapeJSON     Shape = "json-events"
	ShapeUnknown  Shape = "unknown"
)

// ErrUnknownShape is returned when a payload matches no known wire format.
var ErrUnknownShape = errors.New("unrecognized caption payload shape")

// defaultDuration is substituted when upstream omits a segment duration.
const defaultDuration = 3.0

// maxStart discards absurd timestamps (anything past 24 hours).
const maxStart = 24 * 60 * 60

// Parser converts one upstream wire format into the common segment model.
type Parser interface {
	Parse(raw string) []models.Segment
}

// DetectShape sniffs the payload by its first non-whitespace character.
func DetectShape(raw string) Shape {
	trimmed := strings.TrimLeft(raw, " \t\r\n\ufeff")
	if trimmed == "" {
		return ShapeUnknown
	}
	switch trimmed[0] {
	case '<':
		return ShapeTimedXML
	case '{', '[':
		return ShapeJSON
	default:
		return ShapeUnknown
	}
}

// Parse sniffs the payload shape and dispatches to the matching parser.
// The chosen shape is logged so a silent regex salvage never goes
// unnoticed in diagnostics.
func Parse(raw string) ([]models.Segment, error) {
	shape := DetectShape(raw)

	var segments []models.Segment
	switch shape {
	case ShapeTimedXML:
		segments = TimedXMLParser{}.Parse(raw)
	case ShapeJSON:
		segments = JSONEventParser{}.Parse(raw)
	default:
		return nil, ErrUnknownShape
	}

	logger.Debug("Parsed caption payload", map[string]interface{}{
		"shape":    string(shape),
		"segments": len(segments),
	})
	return segments, nil
}

// validSegment applies the model invariants plus the timestamp sanity
// bounds shared by all parsers.
func validSegment(s models.Segment) bool {
	return s.Valid() && s.Start <= maxStart
}
