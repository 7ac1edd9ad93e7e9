// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/2ta/recall/internal/domain"

// LogCreateRequest 新建日志请求
type LogCreateRequest struct {
	Content string `json:"content" form:"content" binding:"required" example:"Fixed the flaky importer test"`
}

// LogUpdateRequest 更新日志请求
type LogUpdateRequest struct {
	ID      string `json:"id" form:"id" binding:"required" example:"f2b2e9a0-1c3d-4b5e-8f6a-7d8c9e0a1b2c"`
	Content string `json:"content" form:"content" binding:"required" example:"Fixed the flaky importer test for real"`
}

// LogDeleteRequest 删除日志请求
// Confirm 是删除确认门的服务端表达，未确认直接拒绝
type LogDeleteRequest struct {
	ID      string `json:"id" form:"id" binding:"required" example:"f2b2e9a0-1c3d-4b5e-8f6a-7d8c9e0a1b2c"`
	Confirm bool   `json:"confirm" form:"confirm" example:"true"`
}

// LogListRequest 单日日志查询请求
type LogListRequest struct {
	Date string `json:"date" form:"date" binding:"omitempty,datetime=2006-01-02" example:"2025-06-10"`
}

// CalendarRequest 月度日志计数查询请求
type CalendarRequest struct {
	Year  int `json:"year" form:"year" binding:"required,min=1970,max=9999" example:"2025"`
	Month int `json:"month" form:"month" binding:"required,min=1,max=12" example:"6"`
}

// LogDTO 日志条目 API 响应对象
type LogDTO struct {
	ID          string `json:"id"`                    // 条目ID
	Timestamp   int64  `json:"timestamp"`             // 创建时间（毫秒）
	Content     string `json:"content"`               // 内容
	UpdatedAt   int64  `json:"updatedAt"`             // 最后修改时间（毫秒）
	IsHighlight bool   `json:"isHighlight,omitempty"` // 是否重点条目
}

// HourGroupDTO 按小时分组的日志块
type HourGroupDTO struct {
	Hour int      `json:"hour"` // 本地小时 0-23
	Logs []LogDTO `json:"logs"` // 该小时内的日志，按时间升序
}

// DayLogsDTO 单日日志视图 API 响应对象
type DayLogsDTO struct {
	Date   string         `json:"date"`   // 查询日期
	Total  int            `json:"total"`  // 当日条目总数
	Groups []HourGroupDTO `json:"groups"` // 按小时分组
}

// CalendarDTO 月度热力图计数 API 响应对象
type CalendarDTO struct {
	Year   int         `json:"year"`
	Month  int         `json:"month"`
	Counts map[int]int `json:"counts"` // 日 -> 当日条目数，无日志的日期不出现
}

// LogToDTO 领域对象转响应对象
func LogToDTO(entry domain.LogEntry) LogDTO {
	return LogDTO{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp,
		Content:     entry.Content,
		UpdatedAt:   entry.UpdatedAt,
		IsHighlight: entry.IsHighlight,
	}
}

// LogsToDTO 批量转换，保持输入顺序
func LogsToDTO(entries []domain.LogEntry) []LogDTO {
	out := make([]LogDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, LogToDTO(entry))
	}
	return out
}
