package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore almacén embebido en disco: persistencia local del dispositivo cuando no hay servidor.
// Badger toma un bloqueo exclusivo del directorio, así que un solo proceso lo usa a la vez;
// dentro del proceso los escritores se serializan por clave.
type BadgerStore struct {
	db    *badger.DB
	locks *keyLocks
}

// OpenBadgerStore abre (o crea) la base en dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("abrir badger en %s: %w", dir, err)
	}
	return &BadgerStore{db: db, locks: newKeyLocks()}, nil
}

// Get devuelve el blob de key o nil si no existe.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}
	return out, nil
}

// Write escribe todas las entradas en una sola transacción.
func (s *BadgerStore) Write(_ context.Context, entries map[string][]byte, _ ...Lease) error {
	if len(entries) == 0 {
		return nil
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		for k, v := range entries {
			if err := txn.Set([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger write: %w", err)
	}
	return nil
}

// Lock bloquea key dentro del proceso.
func (s *BadgerStore) Lock(ctx context.Context, key string) (Lease, error) {
	return s.locks.lock(ctx, key)
}

// Close cierra la base y libera el directorio.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
