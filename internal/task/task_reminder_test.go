package task

import (
	"context"
	"testing"
	"time"

	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/pkg/notifier"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// captureNotify 记录每次投递，可预置返回错误
type captureNotify struct {
	sent []notifier.Notification
	err  error
}

func (c *captureNotify) fn(ctx context.Context, n notifier.Notification) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, n)
	return nil
}

func armedSettings(times ...string) domain.NotificationSettings {
	return domain.NotificationSettings{Enabled: true, ReminderTimes: times}
}

func clockAt(hhmm string) func() time.Time {
	t, _ := time.ParseInLocation("2006-01-02 15:04", "2024-05-10 "+hhmm, time.Local)
	return func() time.Time { return t }
}

func TestReminderFiresOncePerMinute(t *testing.T) {
	capture := &captureNotify{}
	r := NewReminder(capture.fn, zap.NewNop())
	r.Rearm(armedSettings("09:00"), domain.PermissionGranted)

	// 08:59 未到点
	r.WithNow(clockAt("08:59"))
	assert.Nil(t, r.Tick(context.Background()))
	assert.Empty(t, capture.sent)

	// 09:00 命中，触发一次
	r.WithNow(clockAt("09:00"))
	assert.Nil(t, r.Tick(context.Background()))
	assert.Len(t, capture.sent, 1)
	assert.Equal(t, "Recall Reminder", capture.sent[0].Title)
	assert.Equal(t, "Take a moment to log your recent activities!", capture.sent[0].Body)
	assert.Equal(t, "/favicon.ico", capture.sent[0].Icon)

	// 同一分钟内的后续轮询去重
	assert.Nil(t, r.Tick(context.Background()))
	assert.Len(t, capture.sent, 1)

	// 09:01 不是提醒时间点，不触发
	r.WithNow(clockAt("09:01"))
	assert.Nil(t, r.Tick(context.Background()))
	assert.Len(t, capture.sent, 1)
}

func TestReminderStateGating(t *testing.T) {
	capture := &captureNotify{}
	r := NewReminder(capture.fn, zap.NewNop()).WithNow(clockAt("09:00"))

	// 默认状态停摆
	assert.Equal(t, StateIdle, r.State())
	assert.Nil(t, r.Tick(context.Background()))
	assert.Empty(t, capture.sent)

	// 开关开着但权限未授予
	r.Rearm(armedSettings("09:00"), domain.PermissionDenied)
	assert.Equal(t, StateIdle, r.State())
	assert.Nil(t, r.Tick(context.Background()))
	assert.Empty(t, capture.sent)

	// 权限授予但没有时间点
	r.Rearm(armedSettings(), domain.PermissionGranted)
	assert.Equal(t, StateIdle, r.State())

	// 全部就绪
	r.Rearm(armedSettings("09:00"), domain.PermissionGranted)
	assert.Equal(t, StateArmed, r.State())
	assert.Nil(t, r.Tick(context.Background()))
	assert.Len(t, capture.sent, 1)
}

func TestReminderRearmKeepsDedup(t *testing.T) {
	capture := &captureNotify{}
	r := NewReminder(capture.fn, zap.NewNop()).WithNow(clockAt("09:00"))
	r.Rearm(armedSettings("09:00"), domain.PermissionGranted)

	assert.Nil(t, r.Tick(context.Background()))
	assert.Len(t, capture.sent, 1)

	// 同一分钟内重建快照不会导致重复触发
	r.Rearm(armedSettings("09:00", "18:00"), domain.PermissionGranted)
	assert.Nil(t, r.Tick(context.Background()))
	assert.Len(t, capture.sent, 1)
}

func TestReminderDeliveryFailureRetries(t *testing.T) {
	capture := &captureNotify{err: errors.New("webhook down")}
	r := NewReminder(capture.fn, zap.NewNop()).WithNow(clockAt("09:00"))
	r.Rearm(armedSettings("09:00"), domain.PermissionGranted)

	// 投递失败不推进去重标记
	err := r.Tick(context.Background())
	assert.NotNil(t, err)

	// 同一分钟的下个周期重试成功
	capture.err = nil
	assert.Nil(t, r.Tick(context.Background()))
	assert.Len(t, capture.sent, 1)
}

func TestReminderNotConfiguredStillDedups(t *testing.T) {
	capture := &captureNotify{err: notifier.ErrNotConfigured}
	r := NewReminder(capture.fn, zap.NewNop()).WithNow(clockAt("09:00"))
	r.Rearm(armedSettings("09:00"), domain.PermissionGranted)

	// 没有投递通路时只落日志，不算错误，同样去重
	assert.Nil(t, r.Tick(context.Background()))
	assert.Nil(t, r.Tick(context.Background()))
	assert.Empty(t, capture.sent)
}
