package repository

import (
	"context"

	"github.com/meatpack/estoque/internal/domain/entity"
)

// StockMovementRepository puerto del libro de stock (solo agregar y consultar).
type StockMovementRepository interface {
	// Create asigna ID creciente y agrega el registro.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos del producto, por fecha desc y luego ID desc.
	ListByProduct(ctx context.Context, productCode int64) ([]*entity.StockMovement, error)
}
