package api

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// Uppercase #RRGGBB, same rule the tag catalog was seeded with.
	rgbHexRe   = regexp.MustCompile(`^#[A-F0-9]{6}$`)
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// RegisterValidators installs the custom binding rules used by the
// request types. Safe to call more than once.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("rgbhex", matches(rgbHexRe))
	_ = v.RegisterValidation("username", matches(usernameRe))
	_ = v.RegisterValidation("slug", matches(slugRe))
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
