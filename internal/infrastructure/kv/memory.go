package kv

import (
	"context"
	"sync"
)

// MemoryStore almacén en memoria del proceso para tests; los datos se pierden al terminar.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	locks *keyLocks
}

// NewMemoryStore crea un almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string][]byte),
		locks: newKeyLocks(),
	}
}

// Get devuelve una copia del blob de key o nil si no existe.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Write aplica todas las entradas bajo el mismo mutex. Los bloqueos locales no expiran,
// así que held no se verifica.
func (s *MemoryStore) Write(_ context.Context, entries map[string][]byte, _ ...Lease) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.data[k] = append([]byte(nil), v...)
	}
	return nil
}

// Lock bloquea key hasta que se libere el Lease devuelto o ctx termine.
func (s *MemoryStore) Lock(ctx context.Context, key string) (Lease, error) {
	return s.locks.lock(ctx, key)
}

// Close no hace nada.
func (s *MemoryStore) Close() error { return nil }
