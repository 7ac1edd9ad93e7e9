package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/2ta/recall/internal/domain"
	"github.com/2ta/recall/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogService 日志集合的权威持有者
// 集合按插入顺序在内存中维护，每次变更后同步全量镜像到持久层
type LogService struct {
	mu       sync.RWMutex
	logs     []domain.LogEntry
	repo     domain.LogRepository
	logger   *zap.Logger
	now      nowFunc
	onChange []func()
}

// NewLogService 创建 LogService 实例
func NewLogService(repo domain.LogRepository, lg *zap.Logger) *LogService {
	return &LogService{
		logs:   []domain.LogEntry{},
		repo:   repo,
		logger: lg,
		now:    time.Now,
	}
}

// WithNow 注入时钟（测试用）
func (s *LogService) WithNow(now func() time.Time) *LogService {
	s.now = now
	return s
}

// OnChange 注册集合变更回调，增删改后在锁外触发
// 注册需在启动阶段完成
func (s *LogService) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

func (s *LogService) notifyChanged() {
	for _, fn := range s.onChange {
		fn()
	}
}

// Load 启动时读取持久化集合到内存
// 持久层已把"数据缺失/无法解析"折算成空集合，这里不会因坏数据失败
func (s *LogService) Load(ctx context.Context) error {
	logs, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.logs = logs
	s.mu.Unlock()

	s.logger.Info("logs loaded", zap.Int(logger.FieldCount, len(logs)))
	return nil
}

// All 返回集合的只读副本，保持插入顺序
func (s *LogService) All() []domain.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]domain.LogEntry, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// Get 按 id 查找条目
func (s *LogService) Get(id string) (domain.LogEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.logs {
		if entry.ID == id {
			return entry, true
		}
	}
	return domain.LogEntry{}, false
}

// Append 追加一条新日志
// 内容去除首尾空白后为空时不做任何事，返回 nil
func (s *LogService) Append(ctx context.Context, content string) (*domain.LogEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	now := s.now().UnixMilli()
	entry := domain.LogEntry{
		ID:        uuid.New().String(),
		Timestamp: now,
		Content:   content,
		UpdatedAt: now,
	}

	s.mu.Lock()
	next := append(append([]domain.LogEntry{}, s.logs...), entry)
	if err := s.persistLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.logs = next
	s.mu.Unlock()

	s.notifyChanged()
	return &entry, nil
}

// Update 按 id 替换内容并刷新 UpdatedAt
// id 不存在或内容为空时为 no-op，返回 nil
func (s *LogService) Update(ctx context.Context, id string, content string) (*domain.LogEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	s.mu.Lock()
	for i := range s.logs {
		if s.logs[i].ID != id {
			continue
		}
		next := append([]domain.LogEntry{}, s.logs...)
		next[i].Content = content
		next[i].UpdatedAt = s.now().UnixMilli()
		if err := s.persistLocked(ctx, next); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.logs = next
		entry := next[i]
		s.mu.Unlock()

		s.notifyChanged()
		return &entry, nil
	}
	s.mu.Unlock()
	return nil, nil
}

// Remove 按 id 删除条目，返回是否确有删除
// 删除确认属于调用方职责，必须先通过确认门才允许到达这里
func (s *LogService) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	for i := range s.logs {
		if s.logs[i].ID != id {
			continue
		}
		next := make([]domain.LogEntry, 0, len(s.logs)-1)
		next = append(next, s.logs[:i]...)
		next = append(next, s.logs[i+1:]...)
		if err := s.persistLocked(ctx, next); err != nil {
			s.mu.Unlock()
			return false, err
		}
		s.logs = next
		s.mu.Unlock()

		s.notifyChanged()
		return true, nil
	}
	s.mu.Unlock()
	return false, nil
}

// SetHighlights 将给定 id 集合中的条目标记为重点
// 单调操作：不在集合中的条目保持原状，已有的 true 不会被清除
func (s *LogService) SetHighlights(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]domain.LogEntry{}, s.logs...)
	marked := 0
	for i := range next {
		if _, ok := idSet[next[i].ID]; !ok {
			continue
		}
		if !next[i].IsHighlight {
			next[i].IsHighlight = true
			marked++
		}
	}
	if marked == 0 {
		return 0, nil
	}
	if err := s.persistLocked(ctx, next); err != nil {
		return 0, err
	}
	s.logs = next
	return marked, nil
}

// persistLocked 全量重写持久化集合，成功后由调用方提交内存状态
// 调用方必须持有写锁
func (s *LogService) persistLocked(ctx context.Context, logs []domain.LogEntry) error {
	if err := s.repo.Save(ctx, logs); err != nil {
		s.logger.Error("persist logs failed",
			zap.Int(logger.FieldCount, len(logs)),
			zap.Error(err))
		return err
	}
	return nil
}
