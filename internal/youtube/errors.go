package youtube

import (
	"errors"
	"fmt"

	"caption-resolver-backend/internal/models"
)

var (
	// ErrVideoUnavailable means the platform reported the video as
	// private, deleted or otherwise inaccessible. Deterministic; never
	// retried.
	ErrVideoUnavailable = errors.New("video unavailable")

	// ErrNoCaptions means the video exists but offers no caption tracks,
	// or every discovered track produced zero usable segments.
	ErrNoCaptions = errors.New("no captions available")

	// ErrRateLimited means the platform served a challenge page instead
	// of content. Transient from the pipeline's point of view.
	ErrRateLimited = errors.New("upstream rate limit exceeded")
)

// NoCaptionsError carries the tracks that were discovered before the
// attempt came up empty, so the final 404 can list available languages.
type NoCaptionsError struct {
	Available []models.CaptionTrack
}

func (e *NoCaptionsError) Error() string { return ErrNoCaptions.Error() }

func (e *NoCaptionsError) Is(target error) bool { return target == ErrNoCaptions }

// StrategyError wraps a failure with the name of the strategy that
// produced it, for the aggregate log once the chain is exhausted.
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error { return e.Err }
