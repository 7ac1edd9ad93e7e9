package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldPeriod 导出/报告周期字段
	FieldPeriod = "period"

	// FieldKey 存储键字段
	FieldKey = "key"

	// FieldCount 条目数量字段
	FieldCount = "count"

	// FieldEvent 分析事件名称字段
	FieldEvent = "event"
)
