// Package storage elige, una sola vez por proceso, el backend de persistencia activo.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/meatpack/estoque/internal/application/ports"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/infrastructure/flat"
	"github.com/meatpack/estoque/internal/infrastructure/kv"
	"github.com/meatpack/estoque/internal/infrastructure/postgres"
	"github.com/meatpack/estoque/pkg/config"
	"github.com/meatpack/estoque/pkg/logger"
)

// Modos de STORAGE_BACKEND.
const (
	ModeAuto       = "auto"
	ModeRelational = "relational"
	ModeFlat       = "flat"
)

// PlatformWeb plataforma que nunca usa el motor relacional.
const PlatformWeb = "web"

// Decide aplica la regla de selección sin tocar la red.
// auto: relacional solo si la plataforma no es web y hay una base configurada.
func Decide(cfg *config.Config) ports.BackendKind {
	switch cfg.Storage.Backend {
	case ModeRelational:
		return ports.BackendRelational
	case ModeFlat:
		return ports.BackendFlat
	}
	if cfg.App.Platform != PlatformWeb && cfg.DB.Configured() {
		return ports.BackendRelational
	}
	return ports.BackendFlat
}

// Selector abre el backend elegido la primera vez que se pide y devuelve siempre el mismo.
type Selector struct {
	cfg *config.Config
	log *logger.Logger

	once    sync.Once
	backend ports.Backend
	err     error
}

// NewSelector construye el selector; no abre conexiones.
func NewSelector(cfg *config.Config, log *logger.Logger) *Selector {
	return &Selector{cfg: cfg, log: log.Named("storage")}
}

// Backend devuelve el backend del proceso. Un backend forzado que no abre devuelve domain.ErrStorage;
// en modo auto una base inalcanzable cae al backend plano.
func (s *Selector) Backend(ctx context.Context) (ports.Backend, error) {
	s.once.Do(func() {
		s.backend, s.err = s.open(ctx)
	})
	return s.backend, s.err
}

func (s *Selector) open(ctx context.Context) (ports.Backend, error) {
	kind := Decide(s.cfg)
	if kind == ports.BackendFlat {
		return s.openFlat(ctx)
	}

	b, err := postgres.Open(ctx, s.cfg.DB, s.log)
	if err == nil {
		s.log.Info().Str("backend", string(ports.BackendRelational)).Msg("backend seleccionado")
		return b, nil
	}
	if s.cfg.Storage.Backend == ModeRelational {
		return nil, fmt.Errorf("%w: abrir motor relacional: %v", domain.ErrStorage, err)
	}
	s.log.Warn().Err(err).Msg("motor relacional no disponible, se usa el backend plano")
	return s.openFlat(ctx)
}

// openFlat usa Redis si está configurado; si no, el almacén embebido en DataDir.
// Un Redis configurado pero inalcanzable es un error: no se cambia de almacén en silencio.
func (s *Selector) openFlat(ctx context.Context) (ports.Backend, error) {
	keys := flat.Keys{Prefix: s.cfg.Storage.KeyPrefix, Version: s.cfg.Storage.KeyVersion}

	if addr := s.cfg.Redis.Addr; addr != "" {
		rs, err := kv.NewRedisStore(ctx, kv.RedisOptions{
			Addr:     addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
			LockTTL:  s.cfg.Storage.LockTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: abrir redis %s: %v", domain.ErrStorage, addr, err)
		}
		s.log.Info().Str("backend", string(ports.BackendFlat)).Str("store", "redis").Str("addr", addr).Msg("backend seleccionado")
		return flat.NewBackend(rs, keys, s.log), nil
	}

	dir := s.cfg.Storage.DataDir
	if dir == "" {
		return nil, fmt.Errorf("%w: STORAGE_DATA_DIR vacío", domain.ErrStorage)
	}
	bs, err := kv.OpenBadgerStore(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	s.log.Info().Str("backend", string(ports.BackendFlat)).Str("store", "badger").Str("dir", dir).Msg("backend seleccionado")
	return flat.NewBackend(bs, keys, s.log), nil
}
