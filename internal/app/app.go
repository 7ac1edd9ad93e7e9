package app

import (
	"context"
	"fmt"

	"github.com/2ta/recall/internal/dao"
	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/internal/service"
	"github.com/2ta/recall/pkg/analytics"
	pkgapp "github.com/2ta/recall/pkg/app"
	"github.com/2ta/recall/pkg/gemini"
	"github.com/2ta/recall/pkg/notifier"
	"github.com/2ta/recall/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// Repository 层
	LogRepo      domain.LogRepository
	SettingsRepo domain.SettingsRepository

	// Service 层
	LogService     *service.LogService
	SettingService *service.SettingService
	ExportService  *service.ExportService
	ReportService  *service.ReportService

	// 外部通路
	AI        *gemini.Client
	Analytics *analytics.Client
	Notifier  *notifier.Notifier
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config: cfg,
		logger: logger,
		DB:     db,
	}

	// 初始化 DAO
	a.Dao = dao.New(db, logger)

	// 初始化 Repository 层
	a.LogRepo = dao.NewLogRepository(a.Dao)
	a.SettingsRepo = dao.NewSettingsRepository(a.Dao)

	// 外部通路客户端
	a.AI = gemini.NewClient(cfg.GetGeminiConfig())
	a.Analytics = analytics.NewClient(cfg.GetAnalyticsConfig(), util.GetDeviceID(cfg.App.AppID), logger)
	a.Notifier = notifier.New(cfg.GetNotifierConfig())

	// 初始化 Service 层（依赖注入）
	svcConfig := cfg.GetServiceConfig()
	a.LogService = service.NewLogService(a.LogRepo, logger)
	a.SettingService = service.NewSettingService(a.SettingsRepo, logger)
	a.ExportService = service.NewExportService(a.LogService, svcConfig.App, logger)
	a.ReportService = service.NewReportService(a.LogService, a.AI, svcConfig.App, logger)

	// 日志集合变更时作废在途分析的高亮写入
	a.LogService.OnChange(a.ReportService.BumpGeneration)

	logger.Info("App container initialized successfully")

	return a, nil
}

// LoadState 启动时从持久层恢复日志集合与通知设置
func (a *App) LoadState(ctx context.Context) error {
	if err := a.LogService.Load(ctx); err != nil {
		return fmt.Errorf("load logs: %w", err)
	}
	if err := a.SettingService.Load(ctx); err != nil {
		return fmt.Errorf("load notification settings: %w", err)
	}
	return nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}
