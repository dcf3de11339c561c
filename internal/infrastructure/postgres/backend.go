// Package postgres implementa el backend relacional sobre PostgreSQL (pgx).
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meatpack/estoque/internal/application/ports"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/repository"
	"github.com/meatpack/estoque/pkg/config"
	"github.com/meatpack/estoque/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

var _ ports.Backend = (*Backend)(nil)

// Backend implementación relacional de ports.Backend.
type Backend struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewBackend construye el backend sobre un pool ya abierto.
func NewBackend(pool *pgxpool.Pool, log *logger.Logger) *Backend {
	return &Backend{pool: pool, log: log}
}

// Open abre el pool con cfg y devuelve el backend.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Backend, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewBackend(pool, log), nil
}

func (b *Backend) Kind() ports.BackendKind { return ports.BackendRelational }

// EnsureSchema ejecuta las migraciones embebidas, en orden de nombre, dentro de una transacción.
func (b *Backend) EnsureSchema(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("%w: migraciones: %v", domain.ErrStorage, err)
	}
	sort.Strings(names)

	err = pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		for _, name := range names {
			body, err := migrations.ReadFile(name)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			b.log.Debug().Str("migration", name).Msg("esquema aplicado")
		}
		return nil
	})
	if err != nil {
		return storageErr("ensure schema", err)
	}
	return nil
}

func (b *Backend) Clients() repository.ClientRepository { return NewClientRepository(b.pool) }

func (b *Backend) Products() repository.ProductRepository { return NewProductRepository(b.pool) }

func (b *Backend) Orders() repository.OrderRepository { return NewOrderRepository(b.pool) }

func (b *Backend) Movements() repository.StockMovementRepository {
	return NewStockMovementRepository(b.pool)
}

// Close cierra el pool.
func (b *Backend) Close() error {
	b.pool.Close()
	return nil
}
