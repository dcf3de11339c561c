package ports

import (
	"context"

	"github.com/meatpack/estoque/internal/domain/repository"
)

// BackendKind identifica la implementación de almacenamiento activa.
type BackendKind string

const (
	BackendRelational BackendKind = "relational"
	BackendFlat       BackendKind = "flat"
)

// Backend es la única costura entre la aplicación y el almacenamiento.
// Hay dos implementaciones (PostgreSQL y clave-valor plano); se elige una al arrancar
// y se inyecta en todos los casos de uso.
type Backend interface {
	Kind() BackendKind
	// EnsureSchema crea las colecciones si no existen. Idempotente; no-op en el backend plano.
	EnsureSchema(ctx context.Context) error

	Clients() repository.ClientRepository
	Products() repository.ProductRepository
	Orders() repository.OrderRepository
	Movements() repository.StockMovementRepository

	// Run ejecuta fn como una unidad atómica con repositorios atados a ella:
	// si fn devuelve error no se persiste nada.
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
	) error) error

	Close() error
}
