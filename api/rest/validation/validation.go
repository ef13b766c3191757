package validation

import (
	"fmt"
	"sync"

	"codeberg.org/aiam/server/aiam/users"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// closed enumerations usable in binding tags
var rules = map[string]func(string) bool{
	"agerange":    users.IsAgeRange,
	"gender":      users.IsGender,
	"ethnicity":   users.IsEthnicity,
	"aspectratio": users.IsAspectRatio,
	"photokind":   users.IsPhotoKind,
}

// registers the custom tags on gin's validator engine; safe to call more than once
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		for tag, check := range rules {
			if err := v.RegisterValidation(tag, oneOf(check)); err != nil {
				registerErr = fmt.Errorf("failed to register %s validator: %w", tag, err)
				return
			}
		}
	})

	return registerErr
}

func oneOf(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return check(fl.Field().String())
	}
}
