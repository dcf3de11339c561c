package inventory

import (
	"context"

	"github.com/meatpack/estoque/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad atómica del backend, pasando repositorios atados a ella.
// Garantiza que stock y libro de movimientos se actualicen juntos o no se actualicen.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
