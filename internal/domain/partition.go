package domain

import (
	"sort"
	"time"
)

// Period 导出/报告的时间范围
type Period string

const (
	PeriodDay  Period = "day"
	PeriodWeek Period = "week"
	PeriodAll  Period = "all"
)

// IsValid 是否为已知周期
func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodAll:
		return true
	}
	return false
}

// trailingWeek 滚动周窗口长度，固定 7×24h，不按日历周对齐
const trailingWeek = 7 * 24 * time.Hour

// SameCalendarDay 判断毫秒时间戳与参考日期是否落在同一个本地日历日
// 比较的是年月日，不是时刻
func SameCalendarDay(ts int64, ref time.Time) bool {
	t := time.UnixMilli(ts).In(ref.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// WithinTrailingWeek 判断时间戳是否落在以 now 结尾的 7×24h 窗口内
// 边界条目（恰好 now-7d）包含在内
func WithinTrailingWeek(ts int64, now time.Time) bool {
	return ts >= now.Add(-trailingWeek).UnixMilli()
}

// BucketForExport 按周期筛选日志子集
// day 按参考日期的本地日历日，week 按 now 结尾的滚动周，all 返回全部
func BucketForExport(logs []LogEntry, period Period, ref time.Time, now time.Time) []LogEntry {
	switch period {
	case PeriodDay:
		bucket := make([]LogEntry, 0)
		for _, entry := range logs {
			if SameCalendarDay(entry.Timestamp, ref) {
				bucket = append(bucket, entry)
			}
		}
		return bucket
	case PeriodWeek:
		bucket := make([]LogEntry, 0)
		for _, entry := range logs {
			if WithinTrailingWeek(entry.Timestamp, now) {
				bucket = append(bucket, entry)
			}
		}
		return bucket
	default:
		bucket := make([]LogEntry, len(logs))
		copy(bucket, logs)
		return bucket
	}
}

// GroupByHour 按条目创建时刻的本地小时（0-23）分组，组内保持原有插入顺序
func GroupByHour(logs []LogEntry) map[int][]LogEntry {
	groups := make(map[int][]LogEntry)
	for _, entry := range logs {
		hour := entry.Time().Local().Hour()
		groups[hour] = append(groups[hour], entry)
	}
	return groups
}

// HoursAscending 返回分组中出现的小时，升序排列，供展示层迭代
func HoursAscending(groups map[int][]LogEntry) []int {
	hours := make([]int, 0, len(groups))
	for h := range groups {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// CountByDay 统计某年某月每天的日志条数（本地日历日），用于日历热力图
func CountByDay(logs []LogEntry, year int, month time.Month) map[int]int {
	counts := make(map[int]int)
	for _, entry := range logs {
		t := entry.Time().Local()
		if t.Year() == year && t.Month() == month {
			counts[t.Day()]++
		}
	}
	return counts
}

// SortByTimestamp 返回按创建时间升序的稳定排序副本，时间相同保持原有相对顺序
func SortByTimestamp(logs []LogEntry) []LogEntry {
	sorted := make([]LogEntry, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}
