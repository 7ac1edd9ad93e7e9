package dto

// ExportRequest CSV 导出请求
// Date 仅对 period=day 生效，缺省为今天
type ExportRequest struct {
	Period string `json:"period" form:"period" binding:"required,oneof=day week all" example:"day"`
	Date   string `json:"date" form:"date" binding:"omitempty,datetime=2006-01-02" example:"2025-06-10"`
}
