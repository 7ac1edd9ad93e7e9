// Package service 实现业务逻辑层
package service

import (
	"time"
)

// ServiceConfig Service 层需要的配置
type ServiceConfig struct {
	App AppServiceConfig
}

// AppServiceConfig 应用级业务配置
type AppServiceConfig struct {
	// ExportFilenamePrefix 导出文件名前缀
	ExportFilenamePrefix string
	// ReportTemperature 自由文本报告的采样温度
	ReportTemperature float64
}

// DefaultServiceConfig 默认业务配置
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		App: AppServiceConfig{
			ExportFilenamePrefix: "recall-export",
			ReportTemperature:    0.7,
		},
	}
}

// nowFunc 可注入的时钟，测试时替换
type nowFunc func() time.Time
