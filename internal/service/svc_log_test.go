package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2ta/recall/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// memoryLogRepo 内存版 LogRepository，记录每次 Save 的快照
type memoryLogRepo struct {
	logs    []domain.LogEntry
	saves   int
	saveErr error
}

func (r *memoryLogRepo) Load(ctx context.Context) ([]domain.LogEntry, error) {
	out := make([]domain.LogEntry, len(r.logs))
	copy(out, r.logs)
	return out, nil
}

func (r *memoryLogRepo) Save(ctx context.Context, logs []domain.LogEntry) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.logs = make([]domain.LogEntry, len(logs))
	copy(r.logs, logs)
	r.saves++
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLogServiceAppend(t *testing.T) {
	repo := &memoryLogRepo{}
	at := time.Date(2024, 5, 10, 14, 30, 0, 0, time.Local)
	svc := NewLogService(repo, zap.NewNop()).WithNow(fixedClock(at))

	entry, err := svc.Append(context.Background(), "  wrote the quarterly report  ")
	assert.Nil(t, err)
	assert.NotNil(t, entry)

	// 内容去除首尾空白，时间戳取当前时间
	assert.Equal(t, "wrote the quarterly report", entry.Content)
	assert.Equal(t, at.UnixMilli(), entry.Timestamp)
	assert.Equal(t, entry.Timestamp, entry.UpdatedAt)
	assert.NotEmpty(t, entry.ID)

	// 变更已落到持久层
	assert.Equal(t, 1, repo.saves)
	assert.Len(t, repo.logs, 1)
}

func TestLogServiceAppendEmptyIsNoop(t *testing.T) {
	repo := &memoryLogRepo{}
	svc := NewLogService(repo, zap.NewNop())

	entry, err := svc.Append(context.Background(), "   ")
	assert.Nil(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, 0, repo.saves)
	assert.Empty(t, svc.All())
}

func TestLogServiceUpdate(t *testing.T) {
	repo := &memoryLogRepo{}
	created := time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local)
	svc := NewLogService(repo, zap.NewNop()).WithNow(fixedClock(created))

	entry, err := svc.Append(context.Background(), "draft")
	assert.Nil(t, err)

	edited := created.Add(2 * time.Hour)
	svc.WithNow(fixedClock(edited))

	updated, err := svc.Update(context.Background(), entry.ID, "final")
	assert.Nil(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, "final", updated.Content)
	// 创建时间不变，更新时间刷新
	assert.Equal(t, created.UnixMilli(), updated.Timestamp)
	assert.Equal(t, edited.UnixMilli(), updated.UpdatedAt)

	// 不存在的 id 与空内容都是 no-op
	missing, err := svc.Update(context.Background(), "no-such-id", "x")
	assert.Nil(t, err)
	assert.Nil(t, missing)

	noop, err := svc.Update(context.Background(), entry.ID, "  ")
	assert.Nil(t, err)
	assert.Nil(t, noop)
}

func TestLogServiceRemove(t *testing.T) {
	repo := &memoryLogRepo{}
	svc := NewLogService(repo, zap.NewNop())

	entry, err := svc.Append(context.Background(), "to delete")
	assert.Nil(t, err)

	removed, err := svc.Remove(context.Background(), entry.ID)
	assert.Nil(t, err)
	assert.True(t, removed)
	assert.Empty(t, svc.All())

	removed, err = svc.Remove(context.Background(), entry.ID)
	assert.Nil(t, err)
	assert.False(t, removed)
}

func TestLogServiceSetHighlights(t *testing.T) {
	repo := &memoryLogRepo{}
	svc := NewLogService(repo, zap.NewNop())

	a, _ := svc.Append(context.Background(), "a")
	b, _ := svc.Append(context.Background(), "b")
	savesBefore := repo.saves

	marked, err := svc.SetHighlights(context.Background(), []string{a.ID, "unknown"})
	assert.Nil(t, err)
	assert.Equal(t, 1, marked)
	assert.Equal(t, savesBefore+1, repo.saves)

	got, ok := svc.Get(a.ID)
	assert.True(t, ok)
	assert.True(t, got.IsHighlight)

	other, _ := svc.Get(b.ID)
	assert.False(t, other.IsHighlight)

	// 重复标记不再落库
	marked, err = svc.SetHighlights(context.Background(), []string{a.ID})
	assert.Nil(t, err)
	assert.Equal(t, 0, marked)
	assert.Equal(t, savesBefore+1, repo.saves)
}

func TestLogServicePersistFailure(t *testing.T) {
	repo := &memoryLogRepo{saveErr: errors.New("disk full")}
	svc := NewLogService(repo, zap.NewNop())

	entry, err := svc.Append(context.Background(), "won't stick")
	assert.NotNil(t, err)
	assert.Nil(t, entry)
	// 落库失败时内存状态不提交
	assert.Empty(t, svc.All())
}

func TestLogServiceOnChange(t *testing.T) {
	repo := &memoryLogRepo{}
	svc := NewLogService(repo, zap.NewNop())

	fired := 0
	svc.OnChange(func() { fired++ })

	entry, _ := svc.Append(context.Background(), "a")
	assert.Equal(t, 1, fired)

	_, _ = svc.Update(context.Background(), entry.ID, "b")
	assert.Equal(t, 2, fired)

	_, _ = svc.Remove(context.Background(), entry.ID)
	assert.Equal(t, 3, fired)

	// no-op 不触发回调
	_, _ = svc.Append(context.Background(), "  ")
	assert.Equal(t, 3, fired)
}

func TestLogServiceLoad(t *testing.T) {
	repo := &memoryLogRepo{logs: []domain.LogEntry{
		{ID: "x", Timestamp: 1700000000000, Content: "persisted", UpdatedAt: 1700000000000},
	}}
	svc := NewLogService(repo, zap.NewNop())

	err := svc.Load(context.Background())
	assert.Nil(t, err)

	logs := svc.All()
	assert.Len(t, logs, 1)
	assert.Equal(t, "persisted", logs[0].Content)
}
