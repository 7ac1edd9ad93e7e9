package dao

import (
	"context"
	"encoding/json"

	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/pkg/logger"

	"go.uber.org/zap"
)

// LogStorageKey 日志集合在 KV 存储中的键，与原始前端的 localStorage 键保持一致
const LogStorageKey = "recall-app-logs-v1"

// logRepository 实现 domain.LogRepository
// 集合整体序列化为一个 JSON 数组落在单个键下，每次变更全量重写
type logRepository struct {
	dao *Dao
	key string
}

// NewLogRepository 创建 LogRepository 实例
func NewLogRepository(dao *Dao) domain.LogRepository {
	return &logRepository{dao: dao, key: LogStorageKey}
}

// storedLog 持久化记录结构
// 未知字段（历史上的 tags/isDeleted 等）在解析时被忽略，保持向前兼容
type storedLog struct {
	ID          string `json:"id"`
	Timestamp   int64  `json:"timestamp"`
	Content     string `json:"content"`
	UpdatedAt   int64  `json:"updatedAt"`
	IsHighlight bool   `json:"isHighlight,omitempty"`
}

// Load 读取并逐条修复持久化的日志集合
// 解析失败按"无数据"处理，只记诊断日志，不向上抛错
func (r *logRepository) Load(ctx context.Context) ([]domain.LogEntry, error) {
	value, exists, err := r.dao.GetValue(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if !exists || value == "" {
		return []domain.LogEntry{}, nil
	}

	var records []storedLog
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		r.dao.Logger().Error("stored logs unparsable, starting empty",
			zap.String(logger.FieldKey, r.key),
			zap.Error(err))
		return []domain.LogEntry{}, nil
	}

	logs := make([]domain.LogEntry, 0, len(records))
	dropped := 0
	for _, record := range records {
		// 缺少必备字段的记录直接丢弃，而不是带着坏数据继续跑
		if record.ID == "" || record.Timestamp <= 0 || !domain.IsContentValid(record.Content) {
			dropped++
			continue
		}
		if record.UpdatedAt < record.Timestamp {
			record.UpdatedAt = record.Timestamp
		}
		logs = append(logs, domain.LogEntry{
			ID:          record.ID,
			Timestamp:   record.Timestamp,
			Content:     record.Content,
			UpdatedAt:   record.UpdatedAt,
			IsHighlight: record.IsHighlight,
		})
	}

	if dropped > 0 {
		r.dao.Logger().Warn("dropped malformed log records on load",
			zap.String(logger.FieldKey, r.key),
			zap.Int(logger.FieldCount, dropped))
	}

	return logs, nil
}

// Save 全量覆盖写入日志集合
func (r *logRepository) Save(ctx context.Context, logs []domain.LogEntry) error {
	records := make([]storedLog, 0, len(logs))
	for _, entry := range logs {
		records = append(records, storedLog{
			ID:          entry.ID,
			Timestamp:   entry.Timestamp,
			Content:     entry.Content,
			UpdatedAt:   entry.UpdatedAt,
			IsHighlight: entry.IsHighlight,
		})
	}

	value, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return r.dao.SetValue(ctx, r.key, string(value))
}
