package scheduling

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// LocalLocker serializes booking critical sections with in-process mutexes,
// one per shift. Single-process stand-in for the Redis locker, used by tests
// and the simulator's local mode.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *LocalLocker) WithShiftLock(ctx context.Context, shiftID uuid.UUID, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[shiftID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[shiftID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	return fn(ctx)
}
