package api_router

import (
	"context"
	"fmt"
	"net/http"
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
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ExportHandler CSV 导出 API 路由处理器
type ExportHandler struct {
	*Handler
}

// NewExportHandler 创建 ExportHandler 实例
func NewExportHandler(a *app.App) *ExportHandler {
	return &ExportHandler{
		Handler: NewHandler(a),
	}
}

// Export 导出选定周期的日志为 CSV
// @Summary 导出日志 CSV
// @Description 按周期（day/week/all）导出，date 仅对 day 生效且缺省为今天；周期内无日志返回错误
// @Tags 导出
// @Produce text/csv
// @Param period query string true "周期 day/week/all"
// @Param date query string false "日期 YYYY-MM-DD"
// @Success 200 {string} string "CSV 文件"
// @Router /api/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ExportRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ExportHandler.Export.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	var ref time.Time
	if params.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", params.Date, time.Local)
		if err != nil {
			response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
			return
		}
		ref = parsed
	}

	ctx := c.Request.Context()

	filename, data, err := h.App.ExportService.Export(domain.Period(params.Period), ref)
	if err != nil {
		if errors.Is(err, domain.ErrNothingToExport) {
			response.ToResponse(code.ErrorNothingToExport)
			return
		}
		h.logError(ctx, "ExportHandler.Export", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// logError 记录错误日志，包含 Trace ID
func (h *ExportHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, traceID),
	)
}
