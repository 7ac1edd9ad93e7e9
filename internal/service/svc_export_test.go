package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/2ta/recall/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newExportFixture(t *testing.T, now time.Time, logs []domain.LogEntry) *ExportService {
	t.Helper()

	repo := &memoryLogRepo{logs: logs}
	logSvc := NewLogService(repo, zap.NewNop())
	if err := logSvc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewExportService(logSvc, DefaultServiceConfig().App, zap.NewNop()).WithNow(fixedClock(now))
}

func TestExportDay(t *testing.T) {
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.Local)
	svc := newExportFixture(t, now, []domain.LogEntry{
		{ID: "b", Timestamp: time.Date(2024, 5, 10, 14, 5, 0, 0, time.Local).UnixMilli(), Content: "afternoon"},
		{ID: "a", Timestamp: time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local).UnixMilli(), Content: "morning"},
		{ID: "c", Timestamp: time.Date(2024, 5, 9, 9, 0, 0, 0, time.Local).UnixMilli(), Content: "yesterday"},
	})

	filename, data, err := svc.Export(domain.PeriodDay, time.Time{})
	assert.Nil(t, err)
	assert.Equal(t, "recall-export-day-2024-05-10.csv", filename)

	// 按创建时间升序，只含当天
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, []string{
		"Date,Time,Content",
		`2024/05/10,09:00:00,"morning"`,
		`2024/05/10,14:05:00,"afternoon"`,
	}, lines)
}

func TestExportDayWithExplicitDate(t *testing.T) {
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.Local)
	svc := newExportFixture(t, now, []domain.LogEntry{
		{ID: "c", Timestamp: time.Date(2024, 5, 9, 9, 0, 0, 0, time.Local).UnixMilli(), Content: "yesterday"},
	})

	filename, data, err := svc.Export(domain.PeriodDay, time.Date(2024, 5, 9, 0, 0, 0, 0, time.Local))
	assert.Nil(t, err)
	assert.Equal(t, "recall-export-day-2024-05-09.csv", filename)
	assert.Contains(t, string(data), "yesterday")
}

func TestExportWeekAndAll(t *testing.T) {
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.Local)
	svc := newExportFixture(t, now, []domain.LogEntry{
		{ID: "old", Timestamp: now.Add(-30 * 24 * time.Hour).UnixMilli(), Content: "last month"},
		{ID: "recent", Timestamp: now.Add(-2 * 24 * time.Hour).UnixMilli(), Content: "this week"},
	})

	filename, data, err := svc.Export(domain.PeriodWeek, time.Time{})
	assert.Nil(t, err)
	assert.Equal(t, "recall-export-week.csv", filename)
	assert.NotContains(t, string(data), "last month")
	assert.Contains(t, string(data), "this week")

	filename, data, err = svc.Export(domain.PeriodAll, time.Time{})
	assert.Nil(t, err)
	assert.Equal(t, "recall-export-all.csv", filename)
	assert.Contains(t, string(data), "last month")
	assert.Contains(t, string(data), "this week")
}

func TestExportNothingToExport(t *testing.T) {
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.Local)
	svc := newExportFixture(t, now, nil)

	_, _, err := svc.Export(domain.PeriodDay, time.Time{})
	assert.True(t, errors.Is(err, domain.ErrNothingToExport))
}

func TestEncodeCSVQuoting(t *testing.T) {
	ts := time.Date(2024, 5, 10, 9, 30, 15, 0, time.Local).UnixMilli()
	data := EncodeCSV([]domain.LogEntry{
		{ID: "a", Timestamp: ts, Content: `He said "hi"`},
		{ID: "b", Timestamp: ts, Content: "line one\nline two"},
	})

	// 内容列恒加引号，引号翻倍，换行原样保留在引号字段内
	assert.Equal(t, "Date,Time,Content\n"+
		"2024/05/10,09:30:15,\"He said \"\"hi\"\"\"\n"+
		"2024/05/10,09:30:15,\"line one\nline two\"\n",
		string(data))
}

// 任意内容编码后都必须能被标准 CSV 读取器原样读回

func TestProperty_EncodeCSVRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	ts := time.Date(2024, 5, 10, 9, 30, 15, 0, time.Local).UnixMilli()

	properties.Property("encoded content survives a csv parse", prop.ForAll(
		func(content string) bool {
			data := EncodeCSV([]domain.LogEntry{{ID: "x", Timestamp: ts, Content: content}})

			r := csv.NewReader(strings.NewReader(string(data)))
			records, err := r.ReadAll()
			if err != nil {
				t.Logf("csv parse failed: %v", err)
				return false
			}
			if len(records) != 2 || len(records[1]) != 3 {
				t.Logf("unexpected shape: %v", records)
				return false
			}
			return records[1][2] == content
		},
		gen.AnyString().SuchThat(func(s string) bool {
			// 回车会被标准读取器按行终止处理，编码器不对其做转换
			return !strings.Contains(s, "\r")
		}),
	))

	properties.TestingRun(t)
}
