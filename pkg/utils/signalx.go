package utils

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// CancelFlag is a level-triggered cancellation token. Once set it stays set.
// Waiters that want to be woken early select on Wake.
type CancelFlag struct {
	set  atomic.Bool
	once sync.Once
	wake chan struct{}
}

func NewCancelFlag() *CancelFlag {
	return &CancelFlag{wake: make(chan struct{})}
}

func (f *CancelFlag) Cancel() {
	f.set.Store(true)
	f.once.Do(func() {
		close(f.wake)
	})
}

func (f *CancelFlag) Cancelled() bool {
	return f.set.Load()
}

// Wake is closed when the flag is set.
func (f *CancelFlag) Wake() <-chan struct{} {
	return f.wake
}

// WatchSignal sets flag on the first SIGINT or SIGTERM. The returned func
// stops watching.
func WatchSignal(flag *CancelFlag) (stop func()) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGTERM, syscall.SIGINT)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-signalCh:
			logger.Infof("received %s, stopping capture", sig)
			flag.Cancel()
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(signalCh)
			close(done)
		})
	}
}
