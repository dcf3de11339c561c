package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisStore guarda cada colección como un blob bajo su clave y serializa escritores con redislock.
type RedisStore struct {
	client  *redis.Client
	locker  *redislock.Client
	lockTTL time.Duration
	backoff time.Duration
}

// RedisOptions parámetros de conexión y bloqueo.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// NewRedisStore conecta y verifica con PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStoreFromClient(client, opts.LockTTL), nil
}

// NewRedisStoreFromClient envuelve un cliente existente.
func NewRedisStoreFromClient(client *redis.Client, lockTTL time.Duration) *RedisStore {
	if lockTTL <= 0 {
		lockTTL = 5 * time.Second
	}
	return &RedisStore{
		client:  client,
		locker:  redislock.New(client),
		lockTTL: lockTTL,
		backoff: 20 * time.Millisecond,
	}
}

// Get devuelve el blob de key o nil si no existe.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Write escribe todas las entradas en una sola transacción MULTI/EXEC.
// Con held, vigila las claves de bloqueo (WATCH) y aborta con ErrLockLost si alguno
// expiró o cambió de dueño: un escritor que perdió su bloqueo nunca pisa al siguiente.
func (s *RedisStore) Write(ctx context.Context, entries map[string][]byte, held ...Lease) error {
	if len(entries) == 0 {
		return nil
	}
	set := func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, k, v, 0)
		}
		return nil
	}

	var fences []*redisLease
	for _, l := range held {
		if rl, ok := l.(*redisLease); ok {
			fences = append(fences, rl)
		}
	}
	if len(fences) == 0 {
		if _, err := s.client.TxPipelined(ctx, set); err != nil {
			return fmt.Errorf("redis write: %w", err)
		}
		return nil
	}

	watched := make([]string, 0, len(fences))
	for _, f := range fences {
		watched = append(watched, f.lock.Key())
	}
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		for _, f := range fences {
			val, err := tx.Get(ctx, f.lock.Key()).Result()
			if errors.Is(err, redis.Nil) || (err == nil && val != f.lock.Token()+f.lock.Metadata()) {
				return fmt.Errorf("%w: %s", ErrLockLost, f.key)
			}
			if err != nil {
				return err
			}
		}
		_, err := tx.TxPipelined(ctx, set)
		return err
	}, watched...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrLockLost):
		return err
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: %v", ErrLockLost, err)
	}
	return fmt.Errorf("redis write: %w", err)
}

// redisLease bloqueo de redislock renovado en segundo plano hasta Release.
type redisLease struct {
	key  string
	lock *redislock.Lock
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func (l *redisLease) Release() {
	l.once.Do(func() {
		close(l.stop)
		<-l.done
		_ = l.lock.Release(context.Background())
	})
}

// keepAlive renueva el TTL cada tercio del TTL; si una renovación falla el bloqueo se da
// por perdido y Write lo detecta.
func (s *RedisStore) keepAlive(l *redisLease) {
	defer close(l.done)
	t := time.NewTicker(s.lockTTL / 3)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			if err := l.lock.Refresh(context.Background(), s.lockTTL, nil); err != nil {
				return
			}
		}
	}
}

// Lock obtiene el bloqueo "lock:<key>" reintentando hasta el deadline de ctx (o el TTL si no hay).
// El bloqueo se renueva mientras no se libere.
func (s *RedisStore) Lock(ctx context.Context, key string) (Lease, error) {
	lock, err := s.locker.Obtain(ctx, "lock:"+key, s.lockTTL, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(s.backoff),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis lock %s: %w", key, err)
	}
	l := &redisLease{key: key, lock: lock, stop: make(chan struct{}), done: make(chan struct{})}
	go s.keepAlive(l)
	return l, nil
}

// Close cierra el cliente.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
