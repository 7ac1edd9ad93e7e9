package dao

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/2ta/recall/internal/domain"

	"github.com/gookit/goutil/dump"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()

	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "db.sqlite3"),
		TablePrefix: "recall_",
		AutoMigrate: true,
	}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return New(db, zap.NewNop())
}

func TestKvRoundTrip(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()

	// 不存在的键
	_, exists, err := d.GetValue(ctx, "missing")
	assert.Nil(t, err)
	assert.False(t, exists)

	// 写入后读回
	err = d.SetValue(ctx, "k", "v1")
	assert.Nil(t, err)

	value, exists, err := d.GetValue(ctx, "k")
	assert.Nil(t, err)
	assert.True(t, exists)
	assert.Equal(t, "v1", value)

	// 覆盖写入
	err = d.SetValue(ctx, "k", "v2")
	assert.Nil(t, err)

	value, _, _ = d.GetValue(ctx, "k")
	assert.Equal(t, "v2", value)

	// 删除后不可见
	err = d.DeleteValue(ctx, "k")
	assert.Nil(t, err)

	_, exists, _ = d.GetValue(ctx, "k")
	assert.False(t, exists)
}

func TestLogRepositorySaveLoad(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewLogRepository(d)

	// 空库返回空集合
	logs, err := repo.Load(ctx)
	assert.Nil(t, err)
	assert.Empty(t, logs)

	saved := []domain.LogEntry{
		{ID: "a", Timestamp: 1700000000000, Content: "first", UpdatedAt: 1700000000000},
		{ID: "b", Timestamp: 1700000060000, Content: "second", UpdatedAt: 1700000120000, IsHighlight: true},
	}
	err = repo.Save(ctx, saved)
	assert.Nil(t, err)

	logs, err = repo.Load(ctx)
	assert.Nil(t, err)

	dump.P(logs)

	assert.Equal(t, saved, logs)
}

func TestLogRepositoryRepairsRecords(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewLogRepository(d)

	// 混入缺字段的坏记录与 updatedAt 早于 timestamp 的记录
	payload := `[
		{"id":"good","timestamp":1700000000000,"content":"keep","updatedAt":1600000000000},
		{"id":"","timestamp":1700000000000,"content":"no id","updatedAt":1700000000000},
		{"id":"zero-ts","timestamp":0,"content":"no ts","updatedAt":1700000000000},
		{"id":"blank","timestamp":1700000000000,"content":"   ","updatedAt":1700000000000}
	]`
	err := d.SetValue(ctx, LogStorageKey, payload)
	assert.Nil(t, err)

	logs, err := repo.Load(ctx)
	assert.Nil(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, "good", logs[0].ID)
	// updatedAt 被钳制到不早于 timestamp
	assert.Equal(t, int64(1700000000000), logs[0].UpdatedAt)
}

func TestLogRepositoryUnparsableStartsEmpty(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewLogRepository(d)

	err := d.SetValue(ctx, LogStorageKey, "{not json")
	assert.Nil(t, err)

	logs, err := repo.Load(ctx)
	assert.Nil(t, err)
	assert.Empty(t, logs)
}

func TestSettingsRepositorySaveLoad(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewSettingsRepository(d)

	// 空库返回 nil，由上层回退默认值
	settings, err := repo.Load(ctx)
	assert.Nil(t, err)
	assert.Nil(t, settings)

	saved := domain.NotificationSettings{
		Enabled:       true,
		ReminderTimes: []string{"09:00", "21:30"},
	}
	err = repo.Save(ctx, saved)
	assert.Nil(t, err)

	settings, err = repo.Load(ctx)
	assert.Nil(t, err)
	assert.NotNil(t, settings)
	assert.Equal(t, saved, *settings)
}

func TestSettingsRepositoryMalformedFallsBack(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewSettingsRepository(d)

	err := d.SetValue(ctx, SettingsStorageKey, "???")
	assert.Nil(t, err)

	settings, err := repo.Load(ctx)
	assert.Nil(t, err)
	assert.Nil(t, settings)
}

func TestSettingsRepositoryNilTimesBecomeEmpty(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewSettingsRepository(d)

	err := d.SetValue(ctx, SettingsStorageKey, `{"enabled":true}`)
	assert.Nil(t, err)

	settings, err := repo.Load(ctx)
	assert.Nil(t, err)
	assert.NotNil(t, settings)
	assert.True(t, settings.Enabled)
	assert.NotNil(t, settings.ReminderTimes)
	assert.Empty(t, settings.ReminderTimes)
}
