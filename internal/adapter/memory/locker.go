package memory

import (
	"context"
	"sync"

	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
)

var (
	_ secondary.Locker        = (*KeyedLocker)(nil)
	_ secondary.SolvedTracker = (*SolvedTracker)(nil)
)

// KeyedLocker hands out one in-process lock per key
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]chan struct{})}
}

// Lock blocks until key is free or ctx is done
func (l *KeyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SolvedTracker remembers solved (user, challenge) pairs in memory
type SolvedTracker struct {
	mu     sync.Mutex
	solved map[string]struct{}
}

func NewSolvedTracker() *SolvedTracker {
	return &SolvedTracker{solved: make(map[string]struct{})}
}

// MarkSolved reports true only the first time a pair is marked
func (t *SolvedTracker) MarkSolved(_ context.Context, userID, challengeID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := userID + ":" + challengeID
	if _, ok := t.solved[key]; ok {
		return false, nil
	}
	t.solved[key] = struct{}{}
	return true, nil
}
