package service

import (
	"context"
	"sync"

	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/pkg/logger"

	"go.uber.org/zap"
)

// SettingService 通知设置与权限状态的持有者
// 权限状态由客户端上报，只在内存中保留，不入库
type SettingService struct {
	mu         sync.RWMutex
	settings   domain.NotificationSettings
	permission domain.PermissionState
	repo       domain.SettingsRepository
	logger     *zap.Logger
	onSave     []func(domain.NotificationSettings, domain.PermissionState)
}

// NewSettingService 创建 SettingService 实例
func NewSettingService(repo domain.SettingsRepository, lg *zap.Logger) *SettingService {
	return &SettingService{
		settings:   domain.DefaultNotificationSettings(),
		permission: domain.PermissionDefault,
		repo:       repo,
		logger:     lg,
	}
}

// OnSave 注册设置变更回调，设置保存或权限变化后触发
// 回调在锁外执行，注册需在启动阶段完成
func (s *SettingService) OnSave(fn func(domain.NotificationSettings, domain.PermissionState)) {
	s.onSave = append(s.onSave, fn)
}

// Load 启动时读取持久化设置
// 缺失或损坏时回落到默认值，不视为错误
func (s *SettingService) Load(ctx context.Context) error {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if settings != nil {
		s.settings = settings.Normalize()
	} else {
		s.settings = domain.DefaultNotificationSettings()
	}
	loaded := s.settings
	s.mu.Unlock()

	s.logger.Info("notification settings loaded",
		zap.Bool("enabled", loaded.Enabled),
		zap.Int(logger.FieldCount, len(loaded.ReminderTimes)))
	return nil
}

// Settings 返回当前设置的副本
func (s *SettingService) Settings() domain.NotificationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.settings
	out.ReminderTimes = append([]string{}, s.settings.ReminderTimes...)
	return out
}

// Permission 返回客户端最近上报的权限状态
func (s *SettingService) Permission() domain.PermissionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.permission
}

// Save 整体替换设置并持久化，成功后触发变更回调
func (s *SettingService) Save(ctx context.Context, settings domain.NotificationSettings) error {
	settings = settings.Normalize()

	// 先落库，成功后才提交到内存，失败时保持旧快照
	s.mu.Lock()
	if err := s.repo.Save(ctx, settings); err != nil {
		s.mu.Unlock()
		s.logger.Error("persist notification settings failed", zap.Error(err))
		return err
	}
	s.settings = settings
	permission := s.permission
	s.mu.Unlock()

	s.notify(settings, permission)
	return nil
}

// SetPermission 记录客户端上报的权限结果并触发变更回调
func (s *SettingService) SetPermission(state domain.PermissionState) {
	s.mu.Lock()
	s.permission = state
	settings := s.settings
	s.mu.Unlock()

	s.logger.Info("notification permission reported", zap.String("state", string(state)))
	s.notify(settings, state)
}

func (s *SettingService) notify(settings domain.NotificationSettings, permission domain.PermissionState) {
	for _, fn := range s.onSave {
		fn(settings, permission)
	}
}
