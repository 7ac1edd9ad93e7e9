package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/pkg/gemini"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeGemini 按预置应答响应 generateContent 请求
type fakeGemini struct {
	status   int
	text     string
	requests [][]byte
	onCall   func()
}

func (f *fakeGemini) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.requests = append(f.requests, body)
		if f.onCall != nil {
			f.onCall()
		}
		if f.status != 0 && f.status != http.StatusOK {
			w.WriteHeader(f.status)
			return
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": f.text}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newReportFixture(t *testing.T, fake *fakeGemini, now time.Time, logs []domain.LogEntry) (*ReportService, *LogService) {
	t.Helper()

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	repo := &memoryLogRepo{logs: logs}
	logSvc := NewLogService(repo, zap.NewNop())
	if err := logSvc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	client := gemini.NewClient(gemini.Config{APIKey: "test-key", BaseURL: srv.URL})
	report := NewReportService(logSvc, client, DefaultServiceConfig().App, zap.NewNop()).WithNow(fixedClock(now))
	logSvc.OnChange(report.BumpGeneration)
	return report, logSvc
}

func todayLogs(now time.Time) []domain.LogEntry {
	return []domain.LogEntry{
		{ID: "log-1", Timestamp: now.Add(-3 * time.Hour).UnixMilli(), Content: "shipped the release", UpdatedAt: now.UnixMilli()},
		{ID: "log-2", Timestamp: now.Add(-1 * time.Hour).UnixMilli(), Content: "triaged bug reports", UpdatedAt: now.UnixMilli()},
	}
}

func TestGenerateSummaryDaily(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.Local)
	fake := &fakeGemini{text: "You had a productive day."}
	svc, _ := newReportFixture(t, fake, now, todayLogs(now))

	summary, err := svc.GenerateSummary(context.Background(), ReportDailyReflection, time.Time{})
	assert.Nil(t, err)
	assert.Equal(t, "You had a productive day.", summary)

	// 请求里带上了格式化后的日志行
	assert.Len(t, fake.requests, 1)
	assert.Contains(t, string(fake.requests[0]), "[log-1]")
	assert.Contains(t, string(fake.requests[0]), "shipped the release")
}

func TestGenerateSummaryNothingToReport(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.Local)
	fake := &fakeGemini{text: "unused"}
	svc, _ := newReportFixture(t, fake, now, nil)

	_, err := svc.GenerateSummary(context.Background(), ReportDailyReflection, time.Time{})
	assert.True(t, errors.Is(err, domain.ErrNothingToReport))
	assert.Empty(t, fake.requests)
}

func TestGenerateSummaryFallbacks(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.Local)

	// 下游报错折算成固定文案
	fake := &fakeGemini{status: http.StatusInternalServerError}
	svc, _ := newReportFixture(t, fake, now, todayLogs(now))

	summary, err := svc.GenerateSummary(context.Background(), ReportWeeklyManager, time.Time{})
	assert.Nil(t, err)
	assert.Equal(t, fallbackSummaryError, summary)

	// 空应答折算成另一条文案
	fake = &fakeGemini{text: "   "}
	svc, _ = newReportFixture(t, fake, now, todayLogs(now))

	summary, err = svc.GenerateSummary(context.Background(), ReportDailyReflection, time.Time{})
	assert.Nil(t, err)
	assert.Equal(t, fallbackSummaryEmpty, summary)
}

func TestAnalyzeDayMarksHighlights(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.Local)
	fake := &fakeGemini{text: `{"summary":"Shipped and triaged.","importantLogIds":["log-1"]}`}
	svc, logSvc := newReportFixture(t, fake, now, todayLogs(now))

	result, err := svc.AnalyzeDay(context.Background(), time.Time{})
	assert.Nil(t, err)
	assert.Equal(t, "Shipped and triaged.", result.Summary)
	assert.Equal(t, []string{"log-1"}, result.ImportantLogIDs)

	entry, ok := logSvc.Get("log-1")
	assert.True(t, ok)
	assert.True(t, entry.IsHighlight)

	other, _ := logSvc.Get("log-2")
	assert.False(t, other.IsHighlight)
}

func TestAnalyzeDayFallback(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.Local)
	fake := &fakeGemini{status: http.StatusBadGateway}
	svc, logSvc := newReportFixture(t, fake, now, todayLogs(now))

	result, err := svc.AnalyzeDay(context.Background(), time.Time{})
	assert.Nil(t, err)
	assert.Equal(t, fallbackAnalysis, result.Summary)
	assert.Empty(t, result.ImportantLogIDs)

	entry, _ := logSvc.Get("log-1")
	assert.False(t, entry.IsHighlight)
}

func TestAnalyzeDayDiscardsStaleHighlights(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.Local)
	fake := &fakeGemini{text: `{"summary":"Stale.","importantLogIds":["log-1"]}`}
	svc, logSvc := newReportFixture(t, fake, now, todayLogs(now))

	// AI 在途期间集合发生变更
	fake.onCall = func() {
		if _, err := logSvc.Append(context.Background(), "late arrival"); err != nil {
			t.Error(err)
		}
	}

	result, err := svc.AnalyzeDay(context.Background(), time.Time{})
	assert.Nil(t, err)
	assert.Equal(t, "Stale.", result.Summary)

	// 分析结果照常返回，但高亮写入被丢弃
	entry, _ := logSvc.Get("log-1")
	assert.False(t, entry.IsHighlight)
}

func TestFormatLogsForPrompt(t *testing.T) {
	assert.Equal(t, "No activities logged for this period.", FormatLogsForPrompt(nil))

	ts := time.Date(2024, 5, 10, 9, 30, 0, 0, time.Local)
	got := FormatLogsForPrompt([]domain.LogEntry{
		{ID: "abc", Timestamp: ts.UnixMilli(), Content: "stand-up"},
	})
	assert.Equal(t, fmt.Sprintf("[abc] [%s %s] stand-up", ts.Format("2006/01/02"), ts.Format("15:04")), got)
}

func TestReportKindIsValid(t *testing.T) {
	assert.True(t, ReportDailyReflection.IsValid())
	assert.True(t, ReportWeeklyManager.IsValid())
	assert.False(t, ReportKind("MONTHLY").IsValid())
}
