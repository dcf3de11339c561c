package flat

import (
	"context"
	"fmt"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos sobre el blob PEDIDOS; las líneas van embebidas en cada pedido,
// así cabecera y líneas se escriben juntas.
type OrderRepo struct {
	run runner
}

// Create asigna ID = max+1 (o 1) y agrega el pedido con sus líneas.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) (int64, error) {
	err := r.run(ctx, []Collection{Orders}, func(u *unit) error {
		list, err := u.orderList()
		if err != nil {
			return err
		}
		var maxID int64
		for _, o := range list {
			maxID = max(maxID, o.ID)
		}
		order.ID = maxID + 1
		u.orders = append(list, cloneOrder(order))
		u.touch(Orders)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

// GetByID devuelve nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	var found *entity.Order
	err := r.run(ctx, []Collection{Orders}, func(u *unit) error {
		list, err := u.orderList()
		if err != nil {
			return err
		}
		if i := indexOrder(list, id); i >= 0 {
			found = cloneOrder(list[i])
		}
		return nil
	})
	return found, err
}

// GetForUpdate igual que GetByID: dentro de Run la colección ya está bloqueada.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

// List devuelve todos los pedidos en orden de creación.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	return r.filter(ctx, func(*entity.Order) bool { return true })
}

// ListByStatus filtra por estado.
func (r *OrderRepo) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	return r.filter(ctx, func(o *entity.Order) bool { return o.Status == status })
}

// UpdateStatus cambia solo el estado.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	return r.mutate(ctx, id, func(o *entity.Order) { o.Status = status })
}

// UpdateInvoiceReceived cambia solo la marca de nota fiscal recibida.
func (r *OrderRepo) UpdateInvoiceReceived(ctx context.Context, id int64, received bool) error {
	return r.mutate(ctx, id, func(o *entity.Order) { o.InvoiceReceived = received })
}

func (r *OrderRepo) filter(ctx context.Context, keep func(*entity.Order) bool) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.run(ctx, []Collection{Orders}, func(u *unit) error {
		list, err := u.orderList()
		if err != nil {
			return err
		}
		for _, o := range list {
			if keep(o) {
				out = append(out, cloneOrder(o))
			}
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) mutate(ctx context.Context, id int64, fn func(o *entity.Order)) error {
	return r.run(ctx, []Collection{Orders}, func(u *unit) error {
		list, err := u.orderList()
		if err != nil {
			return err
		}
		i := indexOrder(list, id)
		if i < 0 {
			return fmt.Errorf("%w: pedido #%d", domain.ErrNotFound, id)
		}
		fn(list[i])
		u.touch(Orders)
		return nil
	})
}

func indexOrder(list []*entity.Order, id int64) int {
	for i, o := range list {
		if o.ID == id {
			return i
		}
	}
	return -1
}
