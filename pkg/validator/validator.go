package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// videoIDPattern is the platform's fixed-length video identifier shape.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// languagePattern accepts short BCP-47-ish codes such as "en" or "pt-BR".
var languagePattern = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

var (
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
)

func Init() {
	validate = validator.New()

	sanitizer = bluemonday.StrictPolicy()

	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("video_id", validateVideoID)
	v.RegisterValidation("lang_code", validateLanguageCode)
}

func Validate(s interface{}) error {
	return validate.Struct(s)
}

// SanitizeString strips every markup tag from s.
func SanitizeString(s string) string {
	return sanitizer.Sanitize(s)
}

// ValidVideoID reports whether id matches the video identifier pattern.
func ValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// ValidLanguageCode reports whether code looks like a language tag.
func ValidLanguageCode(code string) bool {
	return languagePattern.MatchString(code)
}

func validateVideoID(fl validator.FieldLevel) bool {
	return ValidVideoID(fl.Field().String())
}

func validateLanguageCode(fl validator.FieldLevel) bool {
	return ValidLanguageCode(fl.Field().String())
}
