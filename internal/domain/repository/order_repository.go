package repository

import (
	"context"

	"github.com/meatpack/estoque/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	// Create asigna ID = max+1 (o 1) y persiste cabecera y líneas como una unidad.
	Create(ctx context.Context, order *entity.Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	// GetForUpdate lee el pedido bloqueándolo hasta el fin de la unidad de trabajo.
	GetForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	// List devuelve los pedidos completos (con líneas) ordenados por ID.
	List(ctx context.Context) ([]*entity.Order, error)
	ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error
	UpdateInvoiceReceived(ctx context.Context, id int64, received bool) error
}
