package api_router

import (
	"context"
	"time"

	"github.com/2ta/recall/internal/app"
	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/internal/dto"
	"github.com/2ta/recall/internal/middleware"
	"github.com/2ta/recall/internal/service"
	pkgapp "github.com/2ta/recall/pkg/app"
	"github.com/2ta/recall/pkg/code"
	apperrors "github.com/2ta/recall/pkg/errors"
	"github.com/2ta/recall/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ReportHandler AI 报告 API 路由处理器
type ReportHandler struct {
	*Handler
}

// NewReportHandler 创建 ReportHandler 实例
func NewReportHandler(a *app.App) *ReportHandler {
	return &ReportHandler{
		Handler: NewHandler(a),
	}
}

// Summary 生成周期摘要
// @Summary 生成 AI 摘要
// @Description 按报告类型选取日志并生成摘要；AI 通路故障时返回固定的可展示文案而非错误
// @Tags 报告
// @Accept json
// @Produce json
// @Param params body dto.SummaryRequest true "报告参数"
// @Success 200 {object} pkgapp.Res{data=dto.SummaryDTO} "成功"
// @Router /api/report/summary [post]
func (h *ReportHandler) Summary(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.SummaryRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ReportHandler.Summary.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	if !h.App.AI.IsConfigured() {
		response.ToResponse(code.ErrorReportUnavailable)
		return
	}

	ref, ok := parseDateOrToday(response, params.Date)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	summary, err := h.App.ReportService.GenerateSummary(ctx, service.ReportKind(params.Kind), ref)
	if err != nil {
		if errors.Is(err, domain.ErrNothingToReport) {
			response.ToResponse(code.ErrorNothingToReport)
			return
		}
		h.logError(ctx, "ReportHandler.Summary", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(dto.SummaryDTO{
		Kind:    params.Kind,
		Summary: summary,
	}))
}

// Analyze 分析某天的日志并落高亮
// @Summary 分析单日日志
// @Description 生成一句话总结并识别重点条目，重点条目会被标记为高亮；AI 故障时返回固定兜底结果
// @Tags 报告
// @Accept json
// @Produce json
// @Param params body dto.AnalyzeRequest true "分析参数"
// @Success 200 {object} pkgapp.Res{data=dto.AnalysisDTO} "成功"
// @Router /api/report/analyze [post]
func (h *ReportHandler) Analyze(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AnalyzeRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ReportHandler.Analyze.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	if !h.App.AI.IsConfigured() {
		response.ToResponse(code.ErrorReportUnavailable)
		return
	}

	ref, ok := parseDateOrToday(response, params.Date)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.ReportService.AnalyzeDay(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNothingToReport) {
			response.ToResponse(code.ErrorNothingToReport)
			return
		}
		h.logError(ctx, "ReportHandler.Analyze", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(dto.AnalysisDTO{
		Summary:         result.Summary,
		ImportantLogIDs: result.ImportantLogIDs,
	}))
}

// parseDateOrToday 解析 YYYY-MM-DD，空串表示今天
// 解析失败时已写出响应，返回 ok=false
func parseDateOrToday(response *pkgapp.Response, date string) (time.Time, bool) {
	if date == "" {
		return time.Now(), true
	}
	parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return time.Time{}, false
	}
	return parsed, true
}

// logError 记录错误日志，包含 Trace ID
func (h *ReportHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, traceID),
	)
}
