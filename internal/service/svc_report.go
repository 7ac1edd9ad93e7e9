package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/pkg/gemini"
	"github.com/2ta/recall/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ReportKind 报告类型
type ReportKind string

const (
	ReportDailyReflection ReportKind = "DAILY_REFLECTION"
	ReportWeeklyManager   ReportKind = "WEEKLY_MANAGER"
)

// IsValid 判断报告类型合法性
func (k ReportKind) IsValid() bool {
	return k == ReportDailyReflection || k == ReportWeeklyManager
}

// systemInstruction 摘要生成的固定系统提示词
const systemInstruction = `
You are an expert productivity assistant named "Recall".
Your goal is to help the user summarize their work logs.
You will receive a list of raw activity logs with timestamps.

If the user asks for a "Daily Reflection":
- Focus on how the time was spent.
- Highlight key achievements and potential distractions.
- Tone: Supportive, reflective, and clear.

If the user asks for a "Manager Report" (Weekly or Daily Status):
- Format this as a professional status update.
- Group similar tasks together (e.g., "Development", "Meetings", "Planning").
- Focus on deliverables and impact.
- Use bullet points.
- Tone: Professional, concise, corporate-ready.
- Do NOT mention "I forgot what I did", just state what was done based on the logs.
`

const (
	fallbackSummaryEmpty = "Could not generate summary."
	fallbackSummaryError = "An error occurred while communicating with the AI. Please check your API key and connection."
	fallbackAnalysis     = "Could not analyze logs."
)

// AnalysisResult 单日分析的结构化结果
type AnalysisResult struct {
	Summary         string   `json:"summary"`
	ImportantLogIDs []string `json:"importantLogIds"`
}

// ReportService AI 摘要与单日分析
// 同一时间段的并发请求通过 singleflight 合并；generation 计数保证
// 旧请求的结果不会覆盖新请求之后的状态
type ReportService struct {
	logs        *LogService
	ai          *gemini.Client
	temperature float64
	logger      *zap.Logger
	now         nowFunc

	group      singleflight.Group
	generation atomic.Uint64
}

// NewReportService 创建 ReportService 实例
func NewReportService(logs *LogService, ai *gemini.Client, cfg AppServiceConfig, lg *zap.Logger) *ReportService {
	return &ReportService{
		logs:        logs,
		ai:          ai,
		temperature: cfg.ReportTemperature,
		logger:      lg,
		now:         time.Now,
	}
}

// WithNow 注入时钟（测试用）
func (s *ReportService) WithNow(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// GenerateSummary 生成时间段摘要
// 任何下游失败都折算成固定的可展示文案，绝不向上抛错
func (s *ReportService) GenerateSummary(ctx context.Context, kind ReportKind, ref time.Time) (string, error) {
	now := s.now()
	if ref.IsZero() {
		ref = now
	}

	period := domain.PeriodWeek
	if kind == ReportDailyReflection {
		period = domain.PeriodDay
	}
	selected := domain.BucketForExport(s.logs.All(), period, ref, now)
	if len(selected) == 0 {
		return "", domain.ErrNothingToReport
	}
	selected = domain.SortByTimestamp(selected)

	key := fmt.Sprintf("summary:%s:%s", kind, ref.Format("2006-01-02"))
	out, err, _ := s.group.Do(key, func() (any, error) {
		text, err := s.ai.GenerateText(ctx, systemInstruction, s.summaryPrompt(kind, selected), s.temperature)
		if err != nil {
			s.logger.Warn("summary generation failed",
				zap.String(logger.FieldPeriod, string(period)),
				zap.Error(err))
			return fallbackSummaryError, nil
		}
		if strings.TrimSpace(text) == "" {
			return fallbackSummaryEmpty, nil
		}
		return text, nil
	})
	if err != nil {
		return fallbackSummaryError, nil
	}
	return out.(string), nil
}

// AnalyzeDay 分析指定日期的日志并把重点条目落成高亮
// 结果落库前校验 generation，若期间日志集合已发生变更则丢弃高亮写入
func (s *ReportService) AnalyzeDay(ctx context.Context, ref time.Time) (*AnalysisResult, error) {
	now := s.now()
	if ref.IsZero() {
		ref = now
	}

	selected := domain.BucketForExport(s.logs.All(), domain.PeriodDay, ref, now)
	if len(selected) == 0 {
		return nil, domain.ErrNothingToReport
	}
	selected = domain.SortByTimestamp(selected)

	gen := s.generation.Load()
	key := "analyze:" + ref.Format("2006-01-02")
	out, _, _ := s.group.Do(key, func() (any, error) {
		result := &AnalysisResult{}
		schema := &gemini.Schema{
			Type: "OBJECT",
			Properties: map[string]gemini.Schema{
				"summary": {Type: "STRING"},
				"importantLogIds": {
					Type:  "ARRAY",
					Items: &gemini.Schema{Type: "STRING"},
				},
			},
			Required: []string{"summary", "importantLogIds"},
		}
		if err := s.ai.GenerateJSON(ctx, s.analyzePrompt(selected), schema, result); err != nil {
			s.logger.Warn("day analysis failed", zap.Error(err))
			return &AnalysisResult{Summary: fallbackAnalysis, ImportantLogIDs: []string{}}, nil
		}
		if result.ImportantLogIDs == nil {
			result.ImportantLogIDs = []string{}
		}
		return result, nil
	})

	result := out.(*AnalysisResult)
	if len(result.ImportantLogIDs) > 0 {
		if s.generation.Load() != gen {
			s.logger.Debug("log collection changed during analysis, highlights discarded")
			return result, nil
		}
		if _, err := s.logs.SetHighlights(ctx, result.ImportantLogIDs); err != nil {
			return result, err
		}
	}
	return result, nil
}

// BumpGeneration 日志集合发生变更时由调用方推进，用于作废在途分析的高亮写入
func (s *ReportService) BumpGeneration() {
	s.generation.Add(1)
}

func (s *ReportService) summaryPrompt(kind ReportKind, logs []domain.LogEntry) string {
	formatted := FormatLogsForPrompt(logs)
	if kind == ReportDailyReflection {
		return "Here are my logs for today. Please help me reflect on my day. summarize what I accomplished and how I spent my time.\n\nLogs:\n" + formatted
	}
	return "Here are my logs. Please generate a professional weekly status report I can send to my manager. Categorize the work and highlight completed items.\n\nLogs:\n" + formatted
}

func (s *ReportService) analyzePrompt(logs []domain.LogEntry) string {
	return `Analyze the following daily logs.
1. Create a very brief, punchy 1-sentence summary of the main focus of the day.
2. Identify the IDs of the logs that represent key achievements, important decisions, or completed tasks (the "highlights").

Logs:
` + FormatLogsForPrompt(logs)
}

// FormatLogsForPrompt 将日志渲染成提示词里的行
// 每行形如 [id] [date time] content
func FormatLogsForPrompt(logs []domain.LogEntry) string {
	if len(logs) == 0 {
		return "No activities logged for this period."
	}
	lines := make([]string, 0, len(logs))
	for _, entry := range logs {
		t := entry.Time()
		lines = append(lines, fmt.Sprintf("[%s] [%s %s] %s",
			entry.ID, t.Format("2006/01/02"), t.Format("15:04"), entry.Content))
	}
	return strings.Join(lines, "\n")
}
