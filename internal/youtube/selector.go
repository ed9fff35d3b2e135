package youtube

import (
	"strings"

	"caption-resolver-backend/internal/models"
)

// SelectTrack picks the best caption track for the requested language.
// Manual tracks beat auto-generated ones, exact matches beat regional
// variants, and a non-empty list always yields some track: degrading to a
// wrong-language caption is preferred over failing when captions exist.
//
// Match order, each rule scanning the whole list:
//  1. exact language match, not auto-generated
//  2. exact language match
//  3. regional variant ("en-US" for "en")
//  4. loose prefix match
//  5. English, when English was not what was asked for
//  6. the first track
//
// Returns nil only for an empty track list.
func SelectTrack(tracks []models.CaptionTrack, requested string) *models.CaptionTrack {
	if len(tracks) == 0 {
		return nil
	}

	requested = strings.ToLower(strings.TrimSpace(requested))

	for i, t := range tracks {
		if strings.EqualFold(t.LanguageCode, requested) && !t.AutoGenerated {
			return &tracks[i]
		}
	}
	for i, t := range tracks {
		if strings.EqualFold(t.LanguageCode, requested) {
			return &tracks[i]
		}
	}
	for i, t := range tracks {
		if strings.HasPrefix(strings.ToLower(t.LanguageCode), requested+"-") {
			return &tracks[i]
		}
	}
	for i, t := range tracks {
		if requested != "" && strings.HasPrefix(strings.ToLower(t.LanguageCode), requested) {
			return &tracks[i]
		}
	}
	if requested != "en" && !strings.HasPrefix(requested, "en-") {
		for i, t := range tracks {
			code := strings.ToLower(t.LanguageCode)
			if code == "en" || strings.HasPrefix(code, "en-") {
				return &tracks[i]
			}
		}
	}
	return &tracks[0]
}
