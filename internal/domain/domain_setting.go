package domain

import (
	"context"
	"sort"
)

// NotificationSettings 提醒配置
type NotificationSettings struct {
	// Enabled 整个提醒子系统的总开关
	Enabled bool `json:"enabled"`
	// ReminderTimes 去重后的 "HH:MM"（24小时制）列表，升序保存
	ReminderTimes []string `json:"reminderTimes"`
}

// DefaultNotificationSettings 首次运行的默认配置
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:       false,
		ReminderTimes: []string{"10:00", "14:00", "18:00"},
	}
}

// Normalize 去重并升序排序提醒时间，返回规范化副本
func (s NotificationSettings) Normalize() NotificationSettings {
	seen := make(map[string]struct{}, len(s.ReminderTimes))
	times := make([]string, 0, len(s.ReminderTimes))
	for _, t := range s.ReminderTimes {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		times = append(times, t)
	}
	sort.Strings(times)
	return NotificationSettings{Enabled: s.Enabled, ReminderTimes: times}
}

// HasReminderTime 提醒时间列表中是否包含指定的 "HH:MM"
func (s NotificationSettings) HasReminderTime(hhmm string) bool {
	for _, t := range s.ReminderTimes {
		if t == hhmm {
			return true
		}
	}
	return false
}

// PermissionState 通知权限的三种用户决定结果
type PermissionState string

const (
	// PermissionDefault 尚未询问
	PermissionDefault PermissionState = "default"
	// PermissionGranted 已授权
	PermissionGranted PermissionState = "granted"
	// PermissionDenied 明确拒绝
	PermissionDenied PermissionState = "denied"
	// PermissionDismissed 关闭了询问弹窗
	PermissionDismissed PermissionState = "dismissed"
)

// IsGranted 是否已授权
func (p PermissionState) IsGranted() bool {
	return p == PermissionGranted
}

// IsValid 是否为已知的权限结果
func (p PermissionState) IsValid() bool {
	switch p {
	case PermissionDefault, PermissionGranted, PermissionDenied, PermissionDismissed:
		return true
	}
	return false
}

// SettingsRepository 提醒配置的持久化接口
type SettingsRepository interface {
	// Load 读取持久化配置，数据缺失或无法解析时返回 nil
	Load(ctx context.Context) (*NotificationSettings, error)
	// Save 全量覆盖写入配置（replace 而不是 merge）
	Save(ctx context.Context, settings NotificationSettings) error
}
