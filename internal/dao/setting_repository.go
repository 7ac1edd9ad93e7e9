package dao

import (
	"context"
	"encoding/json"

	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/pkg/logger"

	"go.uber.org/zap"
)

// SettingsStorageKey 提醒配置在 KV 存储中的键
const SettingsStorageKey = "recall-notification-settings-v1"

// settingsRepository 实现 domain.SettingsRepository
type settingsRepository struct {
	dao *Dao
	key string
}

// NewSettingsRepository 创建 SettingsRepository 实例
func NewSettingsRepository(dao *Dao) domain.SettingsRepository {
	return &settingsRepository{dao: dao, key: SettingsStorageKey}
}

// Load 读取持久化配置
// 数据缺失或无法解析时返回 nil，由上层回退到默认配置
func (r *settingsRepository) Load(ctx context.Context) (*domain.NotificationSettings, error) {
	value, exists, err := r.dao.GetValue(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if !exists || value == "" {
		return nil, nil
	}

	var settings domain.NotificationSettings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		r.dao.Logger().Error("stored settings unparsable, falling back to defaults",
			zap.String(logger.FieldKey, r.key),
			zap.Error(err))
		return nil, nil
	}
	if settings.ReminderTimes == nil {
		settings.ReminderTimes = []string{}
	}
	return &settings, nil
}

// Save 全量覆盖写入配置
func (r *settingsRepository) Save(ctx context.Context, settings domain.NotificationSettings) error {
	value, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.dao.SetValue(ctx, r.key, string(value))
}
