package code

// 通用成功/失败
var (
	Success       = NewSuss(0, lang{en: "Success", zh_cn: "成功"})
	Failed        = NewError(1, lang{en: "Failed", zh_cn: "失败"})
	SuccessCreate = NewSuss(2, lang{en: "Created", zh_cn: "创建成功"})
	SuccessUpdate = NewSuss(3, lang{en: "Updated", zh_cn: "更新成功"})
	SuccessDelete = NewSuss(4, lang{en: "Deleted", zh_cn: "删除成功"})
)

// 通用错误 10000xx
var (
	ErrorServerInternal  = NewError(1000000, lang{en: "Server internal error", zh_cn: "服务内部错误"})
	ErrorInvalidParams   = NewError(1000001, lang{en: "Invalid request parameters", zh_cn: "入参错误"})
	ErrorNotFoundAPI     = NewError(1000002, lang{en: "API not found", zh_cn: "找不到接口"})
	ErrorTooManyRequests = NewError(1000003, lang{en: "Too many requests", zh_cn: "请求过多"})
)

// 日志条目 10001xx
var (
	ErrorLogNotFound        = NewError(1000101, lang{en: "Log entry not found", zh_cn: "日志条目不存在"})
	ErrorLogContentEmpty    = NewError(1000102, lang{en: "Log content is empty", zh_cn: "日志内容为空"})
	ErrorDeleteNotConfirmed = NewError(1000103, lang{en: "Delete requires confirmation", zh_cn: "删除需要确认"})
)

// 导出 10002xx
var (
	ErrorNothingToExport = NewError(1000201, lang{en: "No logs found for the selected period", zh_cn: "所选周期内没有日志"})
)

// 提醒设置 10003xx
var (
	ErrorReminderTimeInvalid = NewError(1000301, lang{en: "Reminder time must be HH:MM (24-hour)", zh_cn: "提醒时间必须为 HH:MM（24小时制）"})
	ErrorNotificationDenied  = NewError(1000302, lang{en: "Please enable notifications to use reminders", zh_cn: "请先开启通知权限以使用提醒"})
)

// AI 报告 10004xx
var (
	ErrorReportUnavailable = NewError(1000401, lang{en: "AI report service is not configured", zh_cn: "AI 报告服务未配置"})
	ErrorNothingToReport   = NewError(1000402, lang{en: "No logs found for the report period", zh_cn: "报告周期内没有日志"})
)
