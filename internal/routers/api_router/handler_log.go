package api_router

import (
	"context"
	"time"

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

// LogHandler 日志条目 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type LogHandler struct {
	*Handler
}

// NewLogHandler 创建 LogHandler 实例
func NewLogHandler(a *app.App) *LogHandler {
	return &LogHandler{
		Handler: NewHandler(a),
	}
}

// Create 新建日志条目
// @Summary 新建日志条目
// @Description 追加一条带当前时间戳的日志，内容去除首尾空白后为空则拒绝
// @Tags 日志
// @Accept json
// @Produce json
// @Param params body dto.LogCreateRequest true "日志参数"
// @Success 200 {object} pkgapp.Res{data=dto.LogDTO} "成功"
// @Router /api/log [post]
func (h *LogHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LogCreateRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("LogHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	entry, err := h.App.LogService.Append(ctx, params.Content)
	if err != nil {
		h.logError(ctx, "LogHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if entry == nil {
		response.ToResponse(code.ErrorLogContentEmpty)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(dto.LogToDTO(*entry)))
}

// Update 更新日志条目内容
// @Summary 更新日志条目
// @Description 按 ID 替换内容并刷新修改时间，创建时间保持不变
// @Tags 日志
// @Accept json
// @Produce json
// @Param params body dto.LogUpdateRequest true "日志参数"
// @Success 200 {object} pkgapp.Res{data=dto.LogDTO} "成功"
// @Router /api/log [put]
func (h *LogHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LogUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("LogHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	entry, err := h.App.LogService.Update(ctx, params.ID, params.Content)
	if err != nil {
		h.logError(ctx, "LogHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if entry == nil {
		response.ToResponse(code.ErrorLogNotFound)
		return
	}

	response.ToResponse(code.SuccessUpdate.WithData(dto.LogToDTO(*entry)))
}

// Delete 删除日志条目
// @Summary 删除日志条目
// @Description 删除必须显式携带 confirm=true，未确认的请求直接拒绝
// @Tags 日志
// @Accept json
// @Produce json
// @Param params body dto.LogDeleteRequest true "日志参数"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/log [delete]
func (h *LogHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LogDeleteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("LogHandler.Delete.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	if !params.Confirm {
		response.ToResponse(code.ErrorDeleteNotConfirmed)
		return
	}

	ctx := c.Request.Context()

	removed, err := h.App.LogService.Remove(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "LogHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if !removed {
		response.ToResponse(code.ErrorLogNotFound)
		return
	}

	response.ToResponse(code.SuccessDelete)
}

// Day 获取某天的日志（按小时分组）
// @Summary 获取某天的日志
// @Description 按本地日历日选取日志并按小时分组，date 缺省为今天
// @Tags 日志
// @Produce json
// @Param date query string false "日期 YYYY-MM-DD"
// @Success 200 {object} pkgapp.Res{data=dto.DayLogsDTO} "成功"
// @Router /api/logs [get]
func (h *LogHandler) Day(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LogListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("LogHandler.Day.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ref := time.Now()
	if params.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", params.Date, time.Local)
		if err != nil {
			response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
			return
		}
		ref = parsed
	}

	day := domain.BucketForExport(h.App.LogService.All(), domain.PeriodDay, ref, time.Now())
	day = domain.SortByTimestamp(day)

	groups := domain.GroupByHour(day)
	groupDTOs := make([]dto.HourGroupDTO, 0, len(groups))
	for _, hour := range domain.HoursAscending(groups) {
		groupDTOs = append(groupDTOs, dto.HourGroupDTO{
			Hour: hour,
			Logs: dto.LogsToDTO(groups[hour]),
		})
	}

	response.ToResponse(code.Success.WithData(dto.DayLogsDTO{
		Date:   ref.Format("2006-01-02"),
		Total:  len(day),
		Groups: groupDTOs,
	}))
}

// Calendar 获取某月每天的日志计数
// @Summary 获取某月每天的日志计数
// @Description 用于日历热力图渲染，无日志的日期不出现在结果中
// @Tags 日志
// @Produce json
// @Param year query int true "年份"
// @Param month query int true "月份 1-12"
// @Success 200 {object} pkgapp.Res{data=dto.CalendarDTO} "成功"
// @Router /api/logs/calendar [get]
func (h *LogHandler) Calendar(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CalendarRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("LogHandler.Calendar.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	counts := domain.CountByDay(h.App.LogService.All(), params.Year, time.Month(params.Month))

	response.ToResponse(code.Success.WithData(dto.CalendarDTO{
		Year:   params.Year,
		Month:  params.Month,
		Counts: counts,
	}))
}

// logError 记录错误日志，包含 Trace ID
func (h *LogHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, traceID),
	)
}
