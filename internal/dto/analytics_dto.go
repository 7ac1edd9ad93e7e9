package dto

// AnalyticsEventRequest 埋点事件上报请求
type AnalyticsEventRequest struct {
	EventName string         `json:"eventName" form:"eventName" binding:"required,max=128" example:"waitlist_signup"`
	Metadata  map[string]any `json:"metadata" form:"metadata"`
}
