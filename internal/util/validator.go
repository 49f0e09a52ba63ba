package util

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,20}$`)

// RegisterValidators 在 gin 的校验器上注册自定义规则
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("contenttype", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "video", "text", "pdf":
				return true
			}
			return false
		})
	}
}

// ValidUsername 服务层复用同一条规则
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

var standalone = validator.New()

// ValidEmail 与 binding:"email" 使用同一套规则
func ValidEmail(s string) bool {
	return standalone.Var(s, "required,email") == nil
}
