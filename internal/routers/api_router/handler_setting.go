package api_router

import (
	"context"

	"github.com/2ta/recall/internal/app"
	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/internal/dto"
	"github.com/2ta/recall/internal/middleware"
	pkgapp "github.com/2ta/recall/pkg/app"
	"github.com/2ta/recall/pkg/code"
	apperrors "github.com/2ta/recall/pkg/errors"
	"github.com/2ta/recall/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SettingHandler 通知设置 API 路由处理器
type SettingHandler struct {
	*Handler
}

// NewSettingHandler 创建 SettingHandler 实例
func NewSettingHandler(a *app.App) *SettingHandler {
	return &SettingHandler{
		Handler: NewHandler(a),
	}
}

// Get 获取当前通知设置
// @Summary 获取通知设置
// @Description 返回提醒开关、提醒时间点与客户端最近上报的权限状态
// @Tags 设置
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.SettingDTO} "成功"
// @Router /api/settings/notification [get]
func (h *SettingHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	settings := h.App.SettingService.Settings()
	permission := h.App.SettingService.Permission()

	response.ToResponse(code.Success.WithData(dto.SettingToDTO(settings, permission)))
}

// Save 整体替换通知设置
// @Summary 保存通知设置
// @Description 整体替换设置并持久化，提醒调度随之重建；重复时间点自动去重
// @Tags 设置
// @Accept json
// @Produce json
// @Param params body dto.SettingSaveRequest true "设置参数"
// @Success 200 {object} pkgapp.Res{data=dto.SettingDTO} "成功"
// @Router /api/settings/notification [post]
func (h *SettingHandler) Save(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.SettingSaveRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("SettingHandler.Save.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	settings := domain.NotificationSettings{
		Enabled:       params.Enabled,
		ReminderTimes: params.ReminderTimes,
	}
	if err := h.App.SettingService.Save(ctx, settings); err != nil {
		h.logError(ctx, "SettingHandler.Save", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	saved := h.App.SettingService.Settings()
	permission := h.App.SettingService.Permission()
	response.ToResponse(code.SuccessUpdate.WithData(dto.SettingToDTO(saved, permission)))
}

// Permission 上报通知权限结果
// @Summary 上报通知权限结果
// @Description 客户端上报权限请求的三种结果之一（granted/denied/dismissed），denied 时提醒保持停摆
// @Tags 设置
// @Accept json
// @Produce json
// @Param params body dto.PermissionReportRequest true "权限参数"
// @Success 200 {object} pkgapp.Res{data=dto.SettingDTO} "成功"
// @Router /api/notification/permission [post]
func (h *SettingHandler) Permission(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.PermissionReportRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("SettingHandler.Permission.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	state := domain.PermissionState(params.State)
	h.App.SettingService.SetPermission(state)

	settings := h.App.SettingService.Settings()
	if settings.Enabled && !state.IsGranted() {
		// 提醒开着但权限没拿到，提示用户
		response.ToResponse(code.ErrorNotificationDenied.WithData(dto.SettingToDTO(settings, state)))
		return
	}

	response.ToResponse(code.Success.WithData(dto.SettingToDTO(settings, state)))
}

// logError 记录错误日志，包含 Trace ID
func (h *SettingHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, traceID),
	)
}
