// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"strings"
	"time"
)

// LogEntry 一条用户记录的活动日志
type LogEntry struct {
	// ID 创建时分配的唯一标识，不可变
	ID string `json:"id"`
	// Timestamp 创建时刻（毫秒时间戳），作为条目的规范时间，不可变
	Timestamp int64 `json:"timestamp"`
	// Content 非空文本内容
	Content string `json:"content"`
	// UpdatedAt 最近一次内容修改时刻（毫秒时间戳）
	UpdatedAt int64 `json:"updatedAt"`
	// IsHighlight 由 AI 分析流程标记的重点条目，只会被置 true，不会自动清除
	IsHighlight bool `json:"isHighlight,omitempty"`
}

// Time 条目的创建时间
func (e LogEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// UpdatedTime 条目的最近修改时间
func (e LogEntry) UpdatedTime() time.Time {
	return time.UnixMilli(e.UpdatedAt)
}

// IsContentValid 内容去除首尾空白后是否非空
func IsContentValid(content string) bool {
	return strings.TrimSpace(content) != ""
}

// LogRepository 日志集合的持久化接口
// 集合整体序列化为一个 JSON 数组，落在本地 KV 存储的单个键下
type LogRepository interface {
	// Load 读取持久化的日志集合
	// 数据缺失或无法解析时返回空集合而不是错误
	Load(ctx context.Context) ([]LogEntry, error)
	// Save 全量覆盖写入日志集合
	Save(ctx context.Context, logs []LogEntry) error
}
