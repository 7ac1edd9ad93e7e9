// Package validator 注册自定义校验规则
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	validatorV10 "github.com/go-playground/validator/v10"
)

// reminderTimePattern 24 小时制 HH:MM
var reminderTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsReminderTime 校验字符串是否为合法的 "HH:MM" 提醒时间
func IsReminderTime(s string) bool {
	return reminderTimePattern.MatchString(s)
}

// RegisterCustom 在 gin 的默认校验器上注册自定义 tag
func RegisterCustom() {
	if v, ok := binding.Validator.Engine().(*validatorV10.Validate); ok {
		_ = v.RegisterValidation("reminder_time", func(fl validatorV10.FieldLevel) bool {
			return IsReminderTime(fl.Field().String())
		})
	}
}
