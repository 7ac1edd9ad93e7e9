// Package routers 组装 Gin 路由与中间件
package routers

import (
	"time"

	"github.com/2ta/recall/internal/app"
	"github.com/2ta/recall/internal/middleware"
	"github.com/2ta/recall/internal/routers/api_router"
	"github.com/2ta/recall/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/report",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
)

// NewRouter 创建 HTTP 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		logHandler := api_router.NewLogHandler(appContainer)
		exportHandler := api_router.NewExportHandler(appContainer)
		settingHandler := api_router.NewSettingHandler(appContainer)
		reportHandler := api_router.NewReportHandler(appContainer)
		analyticsHandler := api_router.NewAnalyticsHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		// 日志条目
		api.POST("/log", logHandler.Create)
		api.PUT("/log", logHandler.Update)
		api.DELETE("/log", logHandler.Delete)
		api.GET("/logs", logHandler.Day)
		api.GET("/logs/calendar", logHandler.Calendar)

		// 导出
		api.GET("/export", exportHandler.Export)

		// 通知设置与权限
		api.GET("/settings/notification", settingHandler.Get)
		api.POST("/settings/notification", settingHandler.Save)
		api.POST("/notification/permission", settingHandler.Permission)

		// AI 报告
		api.POST("/report/summary", reportHandler.Summary)
		api.POST("/report/analyze", reportHandler.Analyze)

		// 埋点
		api.POST("/analytics/event", analyticsHandler.Track)

		// 服务端版本号接口
		api.GET("/version", versionHandler.ServerVersion)
	}

	// 运行时指标
	r.GET("/debug/vars", api_router.Expvar)

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
