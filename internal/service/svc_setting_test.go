package service

import (
	"context"
	"errors"
	"testing"

	"github.com/2ta/recall/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// memorySettingsRepo 内存版 SettingsRepository
type memorySettingsRepo struct {
	stored  *domain.NotificationSettings
	saves   int
	saveErr error
}

func (r *memorySettingsRepo) Load(ctx context.Context) (*domain.NotificationSettings, error) {
	if r.stored == nil {
		return nil, nil
	}
	out := *r.stored
	out.ReminderTimes = append([]string{}, r.stored.ReminderTimes...)
	return &out, nil
}

func (r *memorySettingsRepo) Save(ctx context.Context, settings domain.NotificationSettings) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := settings
	copied.ReminderTimes = append([]string{}, settings.ReminderTimes...)
	r.stored = &copied
	r.saves++
	return nil
}

func TestSettingServiceLoadDefaults(t *testing.T) {
	repo := &memorySettingsRepo{}
	svc := NewSettingService(repo, zap.NewNop())

	err := svc.Load(context.Background())
	assert.Nil(t, err)

	// 无持久化数据时回落到默认值
	assert.Equal(t, domain.DefaultNotificationSettings(), svc.Settings())
	assert.Equal(t, domain.PermissionDefault, svc.Permission())
}

func TestSettingServiceLoadNormalizes(t *testing.T) {
	repo := &memorySettingsRepo{stored: &domain.NotificationSettings{
		Enabled:       true,
		ReminderTimes: []string{"21:00", "09:00", "21:00"},
	}}
	svc := NewSettingService(repo, zap.NewNop())

	err := svc.Load(context.Background())
	assert.Nil(t, err)

	// 去重并升序
	settings := svc.Settings()
	assert.True(t, settings.Enabled)
	assert.Equal(t, []string{"09:00", "21:00"}, settings.ReminderTimes)
}

func TestSettingServiceSave(t *testing.T) {
	repo := &memorySettingsRepo{}
	svc := NewSettingService(repo, zap.NewNop())

	var gotSettings domain.NotificationSettings
	var gotPermission domain.PermissionState
	fired := 0
	svc.OnSave(func(settings domain.NotificationSettings, permission domain.PermissionState) {
		gotSettings = settings
		gotPermission = permission
		fired++
	})

	err := svc.Save(context.Background(), domain.NotificationSettings{
		Enabled:       true,
		ReminderTimes: []string{"18:30", "08:00", "18:30"},
	})
	assert.Nil(t, err)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 1, fired)
	assert.Equal(t, []string{"08:00", "18:30"}, gotSettings.ReminderTimes)
	assert.Equal(t, domain.PermissionDefault, gotPermission)

	// 持久化的也是规范化后的形态
	assert.Equal(t, []string{"08:00", "18:30"}, repo.stored.ReminderTimes)
}

func TestSettingServiceSavePersistFailure(t *testing.T) {
	saveErr := errors.New("disk full")
	repo := &memorySettingsRepo{saveErr: saveErr}
	svc := NewSettingService(repo, zap.NewNop())

	fired := 0
	svc.OnSave(func(domain.NotificationSettings, domain.PermissionState) {
		fired++
	})

	err := svc.Save(context.Background(), domain.NotificationSettings{
		Enabled:       true,
		ReminderTimes: []string{"09:00"},
	})
	assert.ErrorIs(t, err, saveErr)

	// 落库失败时内存保持旧快照，回调也不触发
	assert.Equal(t, domain.DefaultNotificationSettings(), svc.Settings())
	assert.Equal(t, 0, fired)

	// 故障恢复后可以正常保存
	repo.saveErr = nil
	err = svc.Save(context.Background(), domain.NotificationSettings{
		Enabled:       true,
		ReminderTimes: []string{"09:00"},
	})
	assert.Nil(t, err)
	assert.True(t, svc.Settings().Enabled)
	assert.Equal(t, 1, fired)
}

func TestSettingServiceSetPermission(t *testing.T) {
	repo := &memorySettingsRepo{}
	svc := NewSettingService(repo, zap.NewNop())

	fired := 0
	var gotPermission domain.PermissionState
	svc.OnSave(func(_ domain.NotificationSettings, permission domain.PermissionState) {
		gotPermission = permission
		fired++
	})

	svc.SetPermission(domain.PermissionGranted)
	assert.Equal(t, domain.PermissionGranted, svc.Permission())
	assert.Equal(t, domain.PermissionGranted, gotPermission)
	assert.Equal(t, 1, fired)

	// 权限状态只在内存中，不落库
	assert.Equal(t, 0, repo.saves)
}

func TestSettingServiceSettingsReturnsCopy(t *testing.T) {
	repo := &memorySettingsRepo{}
	svc := NewSettingService(repo, zap.NewNop())

	err := svc.Save(context.Background(), domain.NotificationSettings{
		Enabled:       true,
		ReminderTimes: []string{"09:00"},
	})
	assert.Nil(t, err)

	first := svc.Settings()
	first.ReminderTimes[0] = "mutated"
	assert.Equal(t, []string{"09:00"}, svc.Settings().ReminderTimes)
}
