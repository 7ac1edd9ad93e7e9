package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/pkg/logger"

	"go.uber.org/zap"
)

// ExportService 按时间段导出 CSV
type ExportService struct {
	logs           *LogService
	filenamePrefix string
	logger         *zap.Logger
	now            nowFunc
}

// NewExportService 创建 ExportService 实例
func NewExportService(logs *LogService, cfg AppServiceConfig, lg *zap.Logger) *ExportService {
	return &ExportService{
		logs:           logs,
		filenamePrefix: cfg.ExportFilenamePrefix,
		logger:         lg,
		now:            time.Now,
	}
}

// WithNow 注入时钟（测试用）
func (s *ExportService) WithNow(now func() time.Time) *ExportService {
	s.now = now
	return s
}

// Export 选出时间段内的日志并编码为 CSV
// ref 仅对 day 生效，零值表示"今天"；命不中任何日志返回 domain.ErrNothingToExport
func (s *ExportService) Export(period domain.Period, ref time.Time) (filename string, data []byte, err error) {
	now := s.now()
	if ref.IsZero() {
		ref = now
	}

	selected := domain.BucketForExport(s.logs.All(), period, ref, now)
	if len(selected) == 0 {
		return "", nil, domain.ErrNothingToExport
	}
	selected = domain.SortByTimestamp(selected)

	filename = s.filename(period, ref)
	data = EncodeCSV(selected)

	s.logger.Info("export generated",
		zap.String(logger.FieldPeriod, string(period)),
		zap.Int(logger.FieldCount, len(selected)))
	return filename, data, nil
}

func (s *ExportService) filename(period domain.Period, ref time.Time) string {
	if period == domain.PeriodDay {
		return fmt.Sprintf("%s-%s-%s.csv", s.filenamePrefix, period, ref.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s-%s.csv", s.filenamePrefix, period)
}

// EncodeCSV 编码导出行
// 表头 Date,Time,Content；内容列恒加引号并将引号翻倍，日期时间列不加引号
// 内容中的换行原样保留，落在引号字段内仍是合法 CSV
func EncodeCSV(logs []domain.LogEntry) []byte {
	var b strings.Builder
	b.WriteString("Date,Time,Content\n")
	for _, entry := range logs {
		t := entry.Time()
		b.WriteString(t.Format("2006/01/02"))
		b.WriteByte(',')
		b.WriteString(t.Format("15:04:05"))
		b.WriteByte(',')
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(entry.Content, `"`, `""`))
		b.WriteString("\"\n")
	}
	return []byte(b.String())
}
