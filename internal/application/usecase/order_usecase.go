package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/meatpack/estoque/internal/application/dto"
	"github.com/meatpack/estoque/internal/application/inventory"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
	"github.com/meatpack/estoque/pkg/logger"
)

// OrderFulfiller aplica la entrega de un pedido al stock (inventory.StockUseCase).
type OrderFulfiller interface {
	FulfillOrder(ctx context.Context, orderID int64) error
}

// OrderUseCase pedidos de compra a proveedores.
type OrderUseCase struct {
	orders    repository.OrderRepository
	txRunner  inventory.TxRunner
	fulfiller OrderFulfiller
	log       *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orders repository.OrderRepository,
	txRunner inventory.TxRunner,
	fulfiller OrderFulfiller,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{orders: orders, txRunner: txRunner, fulfiller: fulfiller, log: log.Named("orders")}
}

// Add crea el pedido en estado aguardando y devuelve su ID. Todas las líneas deben referir productos existentes;
// la verificación y el alta van en la misma unidad, con los productos bloqueados, así un Delete concurrente
// espera a que el pedido quede escrito.
func (uc *OrderUseCase) Add(ctx context.Context, in dto.CreateOrderRequest) (int64, error) {
	in.Supplier = strings.TrimSpace(in.Supplier)
	in.DeliveryTime = strings.TrimSpace(in.DeliveryTime)
	if err := dto.Validate(in); err != nil {
		return 0, err
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.OrderItem{ProductCode: it.ProductCode, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	order := &entity.Order{
		Date:         in.Date,
		DeliveryTime: in.DeliveryTime,
		Items:        items,
		Status:       entity.OrderStatusAwaiting,
		Supplier:     in.Supplier,
	}

	var id int64
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		_ repository.StockMovementRepository,
	) error {
		for _, it := range items {
			p, err := productRepo.GetForUpdate(ctx, it.ProductCode)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %d", domain.ErrNotFound, it.ProductCode)
			}
		}
		var err error
		id, err = orderRepo.Create(ctx, order)
		return err
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int64("order_id", id).Str("supplier", order.Supplier).Int("items", len(items)).Msg("pedido registrado")
	return id, nil
}

// List todos los pedidos con sus líneas.
func (uc *OrderUseCase) List(ctx context.Context) ([]*entity.Order, error) {
	return uc.orders.List(ctx)
}

// ListByStatus pedidos en el estado dado.
func (uc *OrderUseCase) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrValidation, status)
	}
	return uc.orders.ListByStatus(ctx, status)
}

// Get pedido por ID; domain.ErrNotFound si no existe.
func (uc *OrderUseCase) Get(ctx context.Context, id int64) (*entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: pedido #%d", domain.ErrNotFound, id)
	}
	return o, nil
}

// SetStatus entregue aplica la entrega al stock; volver a aguardando un pedido entregue es domain.ErrConflict.
func (uc *OrderUseCase) SetStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	switch status {
	case entity.OrderStatusFulfilled:
		return uc.fulfiller.FulfillOrder(ctx, id)
	case entity.OrderStatusAwaiting:
		o, err := uc.Get(ctx, id)
		if err != nil {
			return err
		}
		if o.Status == entity.OrderStatusFulfilled {
			return fmt.Errorf("%w: el pedido #%d ya fue entregue", domain.ErrConflict, id)
		}
		return nil
	}
	return fmt.Errorf("%w: estado %q", domain.ErrValidation, status)
}

// SetInvoiceReceived marca o desmarca la nota fiscal recibida.
func (uc *OrderUseCase) SetInvoiceReceived(ctx context.Context, id int64, received bool) error {
	return uc.orders.UpdateInvoiceReceived(ctx, id, received)
}
