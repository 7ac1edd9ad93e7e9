package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(year int, month time.Month, day, hour, min int) int64 {
	return time.Date(year, month, day, hour, min, 0, 0, time.Local).UnixMilli()
}

func entry(id string, timestamp int64) LogEntry {
	return LogEntry{ID: id, Timestamp: timestamp, Content: "c-" + id, UpdatedAt: timestamp}
}

func TestSameCalendarDay(t *testing.T) {
	ref := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		ts   int64
		want bool
	}{
		{"当天凌晨", ts(2025, 6, 10, 0, 0), true},
		{"当天深夜", ts(2025, 6, 10, 23, 59), true},
		{"前一天深夜", ts(2025, 6, 9, 23, 59), false},
		{"次日凌晨", ts(2025, 6, 11, 0, 0), false},
		{"上月同日", ts(2025, 5, 10, 15, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameCalendarDay(tt.ts, ref))
		})
	}
}

func TestWithinTrailingWeek(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

	// 边界：正好 7 天前是包含的
	boundary := now.Add(-7 * 24 * time.Hour)
	assert.True(t, WithinTrailingWeek(boundary.UnixMilli(), now))
	assert.False(t, WithinTrailingWeek(boundary.Add(-time.Millisecond).UnixMilli(), now))
	assert.True(t, WithinTrailingWeek(now.UnixMilli(), now))
}

func TestBucketForExport(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

	logs := []LogEntry{
		entry("today", ts(2025, 6, 10, 9, 0)),
		entry("yesterday", ts(2025, 6, 9, 9, 0)),
		entry("last-month", ts(2025, 5, 1, 9, 0)),
	}

	day := BucketForExport(logs, PeriodDay, now, now)
	assert.Len(t, day, 1)
	assert.Equal(t, "today", day[0].ID)

	// day 以 ref 为准，与 now 无关
	dayBefore := BucketForExport(logs, PeriodDay, now.AddDate(0, 0, -1), now)
	assert.Len(t, dayBefore, 1)
	assert.Equal(t, "yesterday", dayBefore[0].ID)

	week := BucketForExport(logs, PeriodWeek, now, now)
	assert.Len(t, week, 2)

	all := BucketForExport(logs, PeriodAll, now, now)
	assert.Len(t, all, 3)
}

func TestGroupByHour(t *testing.T) {
	logs := []LogEntry{
		entry("a", ts(2025, 6, 10, 9, 5)),
		entry("b", ts(2025, 6, 10, 9, 45)),
		entry("c", ts(2025, 6, 10, 14, 0)),
	}

	groups := GroupByHour(logs)
	assert.Len(t, groups, 2)
	assert.Len(t, groups[9], 2)
	assert.Len(t, groups[14], 1)

	hours := HoursAscending(groups)
	assert.Equal(t, []int{9, 14}, hours)
}

func TestCountByDay(t *testing.T) {
	logs := []LogEntry{
		entry("a", ts(2025, 6, 10, 9, 0)),
		entry("b", ts(2025, 6, 10, 18, 0)),
		entry("c", ts(2025, 6, 3, 9, 0)),
		entry("d", ts(2025, 5, 10, 9, 0)), // 上月，不计入
	}

	counts := CountByDay(logs, 2025, time.June)
	assert.Equal(t, map[int]int{10: 2, 3: 1}, counts)
}

func TestSortByTimestamp(t *testing.T) {
	logs := []LogEntry{
		entry("late", ts(2025, 6, 10, 18, 0)),
		entry("early", ts(2025, 6, 10, 9, 0)),
		entry("mid", ts(2025, 6, 10, 12, 0)),
	}

	logs = SortByTimestamp(logs)
	assert.Equal(t, "early", logs[0].ID)
	assert.Equal(t, "mid", logs[1].ID)
	assert.Equal(t, "late", logs[2].ID)
}

func TestNotificationSettingsNormalize(t *testing.T) {
	s := NotificationSettings{
		Enabled:       true,
		ReminderTimes: []string{"18:00", "10:00", "10:00", "14:00"},
	}

	got := s.Normalize()
	assert.Equal(t, []string{"10:00", "14:00", "18:00"}, got.ReminderTimes)
	assert.True(t, got.Enabled)
}

func TestDefaultNotificationSettings(t *testing.T) {
	s := DefaultNotificationSettings()
	assert.False(t, s.Enabled)
	assert.Equal(t, []string{"10:00", "14:00", "18:00"}, s.ReminderTimes)
}
