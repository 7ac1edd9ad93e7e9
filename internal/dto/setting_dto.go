package dto

import "github.com/2ta/recall/internal/domain"

// SettingSaveRequest 通知设置保存请求
// 每个提醒时间必须是合法的 HH:MM，重复项在服务端去重
type SettingSaveRequest struct {
	Enabled       bool     `json:"enabled" form:"enabled" example:"true"`
	ReminderTimes []string `json:"reminderTimes" form:"reminderTimes" binding:"omitempty,dive,reminder_time" example:"10:00,14:00,18:00"`
}

// PermissionReportRequest 客户端权限结果上报请求
type PermissionReportRequest struct {
	State string `json:"state" form:"state" binding:"required,oneof=default granted denied dismissed" example:"granted"`
}

// SettingDTO 通知设置 API 响应对象
type SettingDTO struct {
	Enabled       bool     `json:"enabled"`       // 提醒子系统总开关
	ReminderTimes []string `json:"reminderTimes"` // 提醒时间点 HH:MM，升序去重
	Permission    string   `json:"permission"`    // 客户端最近上报的权限状态
}

// SettingToDTO 领域对象转响应对象
func SettingToDTO(settings domain.NotificationSettings, permission domain.PermissionState) SettingDTO {
	times := settings.ReminderTimes
	if times == nil {
		times = []string{}
	}
	return SettingDTO{
		Enabled:       settings.Enabled,
		ReminderTimes: times,
		Permission:    string(permission),
	}
}
