package dto

// SummaryRequest 摘要生成请求
type SummaryRequest struct {
	Kind string `json:"kind" form:"kind" binding:"required,oneof=DAILY_REFLECTION WEEKLY_MANAGER" example:"DAILY_REFLECTION"`
	Date string `json:"date" form:"date" binding:"omitempty,datetime=2006-01-02" example:"2025-06-10"`
}

// AnalyzeRequest 单日分析请求
type AnalyzeRequest struct {
	Date string `json:"date" form:"date" binding:"omitempty,datetime=2006-01-02" example:"2025-06-10"`
}

// SummaryDTO 摘要 API 响应对象
type SummaryDTO struct {
	Kind    string `json:"kind"`
	Summary string `json:"summary"`
}

// AnalysisDTO 单日分析 API 响应对象
type AnalysisDTO struct {
	Summary         string   `json:"summary"`         // 一句话总结
	ImportantLogIDs []string `json:"importantLogIds"` // 重点条目ID，已落成高亮
}
