// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/2ta/recall/internal/dao"
	"github.com/2ta/recall/internal/service"
	"github.com/2ta/recall/pkg/analytics"
	"github.com/2ta/recall/pkg/gemini"
	"github.com/2ta/recall/pkg/logger"
	"github.com/2ta/recall/pkg/notifier"
	"github.com/2ta/recall/pkg/util"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File      string          `yaml:"-"` // 配置文件路径，不序列化
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	App       AppSettings     `yaml:"app"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	AI        AIConfig        `yaml:"ai"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Notifier  NotifierConfig  `yaml:"notifier"`
	Tracer    TracerConfig    `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，默认为 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// ExportFilenamePrefix 导出文件名前缀
	ExportFilenamePrefix string `yaml:"export-filename-prefix" default:"recall-export"`
	// AppID 用于派生设备标识的应用 ID
	AppID string `yaml:"app-id" default:"recall-activity-log"`
}

// ReminderConfig 提醒轮询配置
type ReminderConfig struct {
	// PollInterval 轮询间隔，必须小于一分钟，否则会跨过 HH:MM 窗口
	PollInterval string `yaml:"poll-interval" default:"30s"`
}

// AIConfig AI 摘要配置
type AIConfig struct {
	// APIKey 为空时报告接口返回不可用
	APIKey string `yaml:"api-key"`
	// BaseURL 服务地址
	BaseURL string `yaml:"base-url" default:"https://generativelanguage.googleapis.com"`
	// Model 模型名称
	Model string `yaml:"model" default:"gemini-3-flash-preview"`
	// Timeout 请求超时
	Timeout string `yaml:"timeout" default:"30s"`
	// Temperature 自由文本报告采样温度
	Temperature float64 `yaml:"temperature" default:"0.7"`
}

// AnalyticsConfig 埋点配置，URL 为空时整个埋点通路为 no-op
type AnalyticsConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon-key"`
	Timeout string `yaml:"timeout" default:"5s"`
}

// NotifierConfig 提醒通知投递配置，URL 为空时提醒只落日志
type NotifierConfig struct {
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
	Timeout string `yaml:"timeout" default:"5s"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	err = yaml.Unmarshal(file, c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetLoggerConfig 获取日志器配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// GetDatabaseConfig 获取持久层配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Path:        c.Database.Path,
		TablePrefix: c.Database.TablePrefix,
		AutoMigrate: c.Database.AutoMigrate,
		RunMode:     c.Server.RunMode,
	}
}

// GetServiceConfig 获取业务层配置
func (c *AppConfig) GetServiceConfig() service.ServiceConfig {
	cfg := service.DefaultServiceConfig()
	if c.App.ExportFilenamePrefix != "" {
		cfg.App.ExportFilenamePrefix = c.App.ExportFilenamePrefix
	}
	if c.AI.Temperature > 0 {
		cfg.App.ReportTemperature = c.AI.Temperature
	}
	return *cfg
}

// GetGeminiConfig 获取 AI 客户端配置
func (c *AppConfig) GetGeminiConfig() gemini.Config {
	return gemini.Config{
		APIKey:  c.AI.APIKey,
		BaseURL: c.AI.BaseURL,
		Model:   c.AI.Model,
		Timeout: parseDurationOr(c.AI.Timeout, 30*time.Second),
	}
}

// GetAnalyticsConfig 获取埋点配置
func (c *AppConfig) GetAnalyticsConfig() analytics.Config {
	return analytics.Config{
		URL:     c.Analytics.URL,
		AnonKey: c.Analytics.AnonKey,
		Timeout: parseDurationOr(c.Analytics.Timeout, 5*time.Second),
	}
}

// GetNotifierConfig 获取通知投递配置
func (c *AppConfig) GetNotifierConfig() notifier.Config {
	return notifier.Config{
		URL:     c.Notifier.URL,
		Secret:  c.Notifier.Secret,
		Timeout: parseDurationOr(c.Notifier.Timeout, 5*time.Second),
	}
}

// GetReminderPollInterval 获取提醒轮询间隔
// 不足一秒或超过一分钟的值回落到默认 30s，窗口跨过会漏掉提醒
func (c *AppConfig) GetReminderPollInterval() time.Duration {
	interval, err := util.ParseDuration(c.Reminder.PollInterval)
	if err != nil || interval < time.Second || interval >= time.Minute {
		return 30 * time.Second
	}
	return interval
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if d, err := util.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}
