package kv

import (
	"context"
	"fmt"
	"sync"
)

// keyLocks bloqueos por clave dentro del proceso. No expiran.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]chan struct{})}
}

type localLease struct {
	once sync.Once
	ch   chan struct{}
}

func (l *localLease) Release() {
	l.once.Do(func() { <-l.ch })
}

// lock espera hasta obtener key o hasta que ctx termine.
func (k *keyLocks) lock(ctx context.Context, key string) (Lease, error) {
	k.mu.Lock()
	ch, ok := k.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		k.locks[key] = ch
	}
	k.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return &localLease{ch: ch}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
	}
}
