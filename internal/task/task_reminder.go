package task

import (
	"context"
	"sync"
	"time"

	"github.com/2ta/recall/internal/app"
	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/pkg/notifier"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// 提醒通知内容
const (
	reminderTitle = "Recall Reminder"
	reminderBody  = "Take a moment to log your recent activities!"
	reminderIcon  = "/favicon.ico"
)

// ReminderState 提醒子系统状态
type ReminderState string

const (
	// StateIdle 停摆：开关关闭、权限未授予或没有提醒时间点
	StateIdle ReminderState = "idle"
	// StateArmed 待命：每个轮询周期检查当前 HH:MM 是否命中
	StateArmed ReminderState = "armed"
)

// NotifyFunc 投递一条提醒
type NotifyFunc func(ctx context.Context, n notifier.Notification) error

// Reminder 提醒状态机
// 每次设置保存或权限上报后整体重建快照（Rearm）；
// 同一 HH:MM 在连续轮询中只触发一次，跨分钟自然解除
type Reminder struct {
	mu         sync.Mutex
	settings   domain.NotificationSettings
	permission domain.PermissionState
	lastFired  string

	notify NotifyFunc
	logger *zap.Logger
	now    func() time.Time
}

// NewReminder 创建提醒状态机
func NewReminder(notify NotifyFunc, lg *zap.Logger) *Reminder {
	return &Reminder{
		settings:   domain.DefaultNotificationSettings(),
		permission: domain.PermissionDefault,
		notify:     notify,
		logger:     lg,
		now:        time.Now,
	}
}

// WithNow 注入时钟（测试用）
func (r *Reminder) WithNow(now func() time.Time) *Reminder {
	r.now = now
	return r
}

// Rearm 用新的设置与权限快照重建状态机
func (r *Reminder) Rearm(settings domain.NotificationSettings, permission domain.PermissionState) {
	r.mu.Lock()
	r.settings = settings
	r.permission = permission
	state := r.stateLocked()
	r.mu.Unlock()

	r.logger.Info("reminder rearmed",
		zap.String("state", string(state)),
		zap.Bool("enabled", settings.Enabled),
		zap.Int("times", len(settings.ReminderTimes)),
		zap.String("permission", string(permission)))
}

// State 返回当前状态
func (r *Reminder) State() ReminderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *Reminder) stateLocked() ReminderState {
	if r.settings.Enabled && r.permission.IsGranted() && len(r.settings.ReminderTimes) > 0 {
		return StateArmed
	}
	return StateIdle
}

// Tick 单次轮询
// 停摆状态直接返回；命中的 HH:MM 只投递一次，投递失败不推进去重标记，下个周期重试
func (r *Reminder) Tick(ctx context.Context) error {
	r.mu.Lock()
	if r.stateLocked() != StateArmed {
		r.mu.Unlock()
		return nil
	}

	timeStr := r.now().Format("15:04")
	if r.lastFired == timeStr || !r.settings.HasReminderTime(timeStr) {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	err := r.notify(ctx, notifier.Notification{
		Title: reminderTitle,
		Body:  reminderBody,
		Icon:  reminderIcon,
	})
	if err != nil {
		if errors.Is(err, notifier.ErrNotConfigured) {
			// 没有投递通路时提醒只落日志，同样去重
			r.logger.Info("reminder due", zap.String("time", timeStr))
			r.markFired(timeStr)
			return nil
		}
		r.logger.Warn("reminder delivery failed", zap.String("time", timeStr), zap.Error(err))
		return err
	}

	r.logger.Info("reminder delivered", zap.String("time", timeStr))
	r.markFired(timeStr)
	return nil
}

func (r *Reminder) markFired(timeStr string) {
	r.mu.Lock()
	r.lastFired = timeStr
	r.mu.Unlock()
}

// ReminderTask 将提醒状态机挂到任务调度器上
type ReminderTask struct {
	reminder *Reminder
	interval time.Duration
}

func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		reminder := NewReminder(appContainer.Notifier.Notify, appContainer.Logger())

		// 启动时用已加载的设置武装一次
		reminder.Rearm(appContainer.SettingService.Settings(), appContainer.SettingService.Permission())

		// 设置保存或权限上报后重建
		appContainer.SettingService.OnSave(reminder.Rearm)

		return &ReminderTask{
			reminder: reminder,
			interval: appContainer.Config().GetReminderPollInterval(),
		}, nil
	})
}

func (t *ReminderTask) Name() string {
	return "reminder_poll"
}

func (t *ReminderTask) Run(ctx context.Context) error {
	return t.reminder.Tick(ctx)
}

func (t *ReminderTask) LoopInterval() time.Duration {
	return t.interval
}

func (t *ReminderTask) IsStartupRun() bool {
	return false
}
