package api_router

import (
	"context"

	"github.com/2ta/recall/internal/app"
	"github.com/2ta/recall/internal/dto"
	pkgapp "github.com/2ta/recall/pkg/app"
	"github.com/2ta/recall/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyticsHandler 埋点上报 API 路由处理器
// 上报是尽力而为的：通路未配置或投递失败都不影响响应
type AnalyticsHandler struct {
	*Handler
}

// NewAnalyticsHandler 创建 AnalyticsHandler 实例
func NewAnalyticsHandler(a *app.App) *AnalyticsHandler {
	return &AnalyticsHandler{
		Handler: NewHandler(a),
	}
}

// Track 上报埋点事件
// @Summary 上报埋点事件
// @Description 事件异步投递到埋点通路，失败只落 debug 日志，响应恒为成功
// @Tags 埋点
// @Accept json
// @Produce json
// @Param params body dto.AnalyticsEventRequest true "事件参数"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/analytics/event [post]
func (h *AnalyticsHandler) Track(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AnalyticsEventRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("AnalyticsHandler.Track.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 投递不占用请求生命周期，请求上下文结束后仍可完成
	go h.App.Analytics.TrackEvent(context.Background(), params.EventName, params.Metadata)

	response.ToResponse(code.Success)
}
