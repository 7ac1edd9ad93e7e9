// Package safe_close 提供统一的关闭信号管理
// 多个后台组件 Attach 到同一个 SafeClose，收到关闭信号后各自清理并 done
package safe_close

import (
	"sync"
)

type SafeClose struct {
	mu sync.Mutex
	wg sync.WaitGroup

	closed      bool
	closeSignal chan struct{}
	err         error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach 注册一个后台组件
// f 内部必须调用 done()，并监听 closeSignal 做清理
func (sc *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	sc.wg.Add(1)
	var once sync.Once
	done := func() {
		once.Do(sc.wg.Done)
	}
	go f(done, sc.closeSignal)
}

// SendCloseSignal 发送关闭信号，err 为触发关闭的错误（可为 nil）
// 重复调用只有第一次生效
func (sc *SafeClose) SendCloseSignal(err error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.closed {
		return
	}
	sc.closed = true
	sc.err = err
	close(sc.closeSignal)
}

// WaitClosed 阻塞等待所有已注册组件退出
func (sc *SafeClose) WaitClosed() error {
	sc.wg.Wait()

	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.err
}

// CloseSignal 返回关闭信号通道
func (sc *SafeClose) CloseSignal() <-chan struct{} {
	return sc.closeSignal
}
