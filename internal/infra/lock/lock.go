package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotAcquired is returned when a key stays held past the wait window.
var ErrNotAcquired = errors.New("lock: not acquired")

// Locker serializes work on a key. release must be called exactly once
// after a successful Acquire; extra calls are ignored.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Noop never blocks.
type Noop struct{}

func (Noop) Acquire(context.Context, string) (func(), error) { return func() {}, nil }

type slot struct {
	ch   chan struct{}
	refs int
}

// Local is an in-process keyed mutex. Slots are dropped once nobody holds
// or waits on them.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

func NewLocal(wait time.Duration) *Local {
	return &Local{slots: map[string]*slot{}, wait: wait}
}

func (l *Local) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, s)
		return nil, ErrNotAcquired
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(key, s)
		})
	}, nil
}

func (l *Local) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
