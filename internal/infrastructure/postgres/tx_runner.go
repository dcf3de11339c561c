package postgres

import (
	"context"
	"fmt"

	"github.com/meatpack/estoque/internal/application/inventory"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/repository"
)

var _ inventory.TxRunner = (*Backend)(nil)

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (b *Backend) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", domain.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	orderRepo := NewOrderRepository(tx)
	movRepo := NewStockMovementRepository(tx)

	if err := fn(productRepo, orderRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w: %w", domain.ErrStorage, err)
	}
	return nil
}
