package service

import (
	"errors"
	"fmt"

	"caption-resolver-backend/internal/models"
)

var (
	// ErrTimeout means every strategy ran out of time before producing
	// captions.
	ErrTimeout = errors.New("caption extraction timed out")

	// ErrUpstream means every strategy failed for reasons other than the
	// captions genuinely not existing.
	ErrUpstream = errors.New("caption extraction failed upstream")
)

// NotFoundError means the video was reachable but no usable captions
// exist for it. AvailableLanguages lists the tracks that were discovered,
// if any strategy got far enough to see them.
type NotFoundError struct {
	VideoID            string
	AvailableLanguages []models.CaptionTrack
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no captions found for video %s", e.VideoID)
}
