package safe_close

import (
	"sync"
)

// SafeClose coordinates graceful shutdown across goroutines.
// Attach registers a goroutine that receives a close signal channel;
// SendCloseSignal broadcasts shutdown; WaitClosed blocks until all
// attached goroutines have returned.
// SafeClose 协调多个协程的优雅关闭
type SafeClose struct {
	m sync.Mutex

	closeSignal chan struct{}
	closeOnce   sync.Once
	closeErr    error

	wg sync.WaitGroup

	doneSignal chan struct{}
	doneOnce   sync.Once
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
		doneSignal:  make(chan struct{}),
	}
}

// Attach starts f in a new goroutine. f must return after closeSignal is
// closed, and must call done() exactly once when it has fully stopped.
// Attach 启动协程，closeSignal 关闭后 f 必须返回并调用 done
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var doneOnce sync.Once
	done := func() {
		doneOnce.Do(s.wg.Done)
	}
	go f(done, s.closeSignal)
}

// SendCloseSignal triggers shutdown. Only the first error is kept.
// SendCloseSignal 触发关闭，仅保留第一个错误
func (s *SafeClose) SendCloseSignal(err error) {
	s.closeOnce.Do(func() {
		s.m.Lock()
		s.closeErr = err
		s.m.Unlock()
		close(s.closeSignal)
	})
}

// Err returns the error passed to the first SendCloseSignal call.
func (s *SafeClose) Err() error {
	s.m.Lock()
	defer s.m.Unlock()
	return s.closeErr
}

// ReceiveCloseSignal returns the channel closed by SendCloseSignal.
func (s *SafeClose) ReceiveCloseSignal() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed blocks until every attached goroutine has called done.
// WaitClosed 阻塞直到所有已注册的协程退出
func (s *SafeClose) WaitClosed() {
	s.wg.Wait()
	s.doneOnce.Do(func() {
		close(s.doneSignal)
	})
}

// Done returns a channel closed after WaitClosed completes.
func (s *SafeClose) Done() <-chan struct{} {
	return s.doneSignal
}
