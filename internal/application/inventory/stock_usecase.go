package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meatpack/estoque/internal/application/dto"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	stock "github.com/meatpack/estoque/internal/domain/inventory"
	"github.com/meatpack/estoque/internal/domain/repository"
	"github.com/meatpack/estoque/pkg/logger"
)

// StockUseCase motor de consistencia de inventario: entrega de pedidos y salidas de stock.
// Cada operación corre en una sola unidad del backend (TxRunner.Run): o se persiste todo o nada.
type StockUseCase struct {
	txRunner  TxRunner
	movements repository.StockMovementRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, movements repository.StockMovementRepository, log *logger.Logger) *StockUseCase {
	return &StockUseCase{
		txRunner:  txRunner,
		movements: movements,
		log:       log.Named("inventory"),
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj usado para fechar los movimientos.
func (uc *StockUseCase) WithClock(now func() time.Time) *StockUseCase {
	uc.now = now
	return uc
}

// FulfillOrder marca el pedido como entregue: suma cada línea al stock (fecha de última entrega = fecha
// del pedido), registra una entrada por línea con el mismo TransactionID y cambia el estado.
// Un pedido ya entregue no se vuelve a aplicar. Las líneas cuyo producto fue eliminado se omiten
// (sin stock ni movimiento) y el pedido igual pasa a entregue.
func (uc *StockUseCase) FulfillOrder(ctx context.Context, orderID int64) error {
	var (
		applied bool
		items   int
		skipped []int64
	)
	txID := uuid.New().String()
	now := uc.now()

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: pedido #%d", domain.ErrNotFound, orderID)
		}
		if order.Status == entity.OrderStatusFulfilled {
			return nil
		}

		skipped = skipped[:0]
		received := make([]entity.OrderItem, 0, len(order.Items))
		delivered := order.Date
		for _, it := range order.Items {
			product, err := productRepo.GetForUpdate(ctx, it.ProductCode)
			if err != nil {
				return err
			}
			if product == nil {
				skipped = append(skipped, it.ProductCode)
				continue
			}
			if err := productRepo.UpdateStock(ctx, it.ProductCode, stock.Receive(product.Quantity, it.Quantity), &delivered); err != nil {
				return err
			}
			received = append(received, it)
		}

		reason := stock.FulfillmentReason(orderID)
		for _, it := range received {
			id := orderID
			mov := &entity.StockMovement{
				TransactionID: txID,
				ProductCode:   it.ProductCode,
				Date:          now,
				Type:          entity.MovementTypeIn,
				Quantity:      it.Quantity,
				Reason:        reason,
				OrderID:       &id,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
		}

		if err := orderRepo.UpdateStatus(ctx, orderID, entity.OrderStatusFulfilled); err != nil {
			return err
		}
		applied = true
		items = len(received)
		return nil
	})
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		uc.log.Warn().Int64("order_id", orderID).Ints64("product_codes", skipped).Msg("pedido con productos eliminados: líneas omitidas")
	}
	if applied {
		uc.log.Info().Int64("order_id", orderID).Int("items", items).Str("transaction_id", txID).Msg("pedido entregue")
	}
	return nil
}

// Withdraw registra una salida de stock y devuelve el movimiento creado.
func (uc *StockUseCase) Withdraw(ctx context.Context, in dto.WithdrawalRequest) (*entity.StockMovement, error) {
	movs, err := uc.WithdrawBatch(ctx, []dto.WithdrawalRequest{in})
	if err != nil {
		return nil, err
	}
	return movs[0], nil
}

// WithdrawBatch registra varias salidas en una sola unidad: si una falla, ninguna se persiste.
func (uc *StockUseCase) WithdrawBatch(ctx context.Context, in []dto.WithdrawalRequest) ([]*entity.StockMovement, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no hay salidas para registrar", domain.ErrValidation)
	}
	lines := make([]dto.WithdrawalRequest, len(in))
	for i, w := range in {
		w.Reason = strings.TrimSpace(w.Reason)
		if err := dto.Validate(w); err != nil {
			return nil, err
		}
		lines[i] = w
	}

	txID := uuid.New().String()
	now := uc.now()
	var out []*entity.StockMovement

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.OrderRepository,
		movRepo repository.StockMovementRepository,
	) error {
		out = out[:0]
		for _, w := range lines {
			product, err := productRepo.GetForUpdate(ctx, w.ProductCode)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %d", domain.ErrNotFound, w.ProductCode)
			}
			left, err := stock.Withdraw(product.Quantity, w.Quantity)
			if err != nil {
				return fmt.Errorf("producto %d: %w", w.ProductCode, err)
			}
			if err := productRepo.UpdateStock(ctx, w.ProductCode, left, nil); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				TransactionID: txID,
				ProductCode:   w.ProductCode,
				Date:          now,
				Type:          entity.MovementTypeOut,
				Quantity:      w.Quantity,
				Reason:        w.Reason,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			out = append(out, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range out {
		uc.log.Info().Int64("product_code", m.ProductCode).Str("quantity", m.Quantity.String()).Str("reason", m.Reason).Msg("salida registrada")
	}
	return out, nil
}

// History movimientos del producto, más recientes primero.
func (uc *StockUseCase) History(ctx context.Context, productCode int64) ([]*entity.StockMovement, error) {
	return uc.movements.ListByProduct(ctx, productCode)
}

// WithdrawalReasons motivos predefinidos para la pantalla de salida.
func (uc *StockUseCase) WithdrawalReasons() []string {
	return stock.WithdrawalReasons()
}
