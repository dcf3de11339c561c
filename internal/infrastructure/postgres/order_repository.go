package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// orderSelect cabecera y líneas en una sola pasada; las filas llegan agrupadas por pedido.
const orderSelect = `
	SELECT o.id, o.order_date, o.delivery_time, o.status, o.supplier, o.invoice_received,
		i.product_code, i.quantity, i.unit_price
	FROM orders o
	LEFT JOIN order_items i ON i.order_id = o.id`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create asigna ID = max+1 bajo bloqueo de tabla y escribe cabecera y líneas en la misma transacción.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) (int64, error) {
	var id int64
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE orders IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM orders`).Scan(&id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (id, order_date, delivery_time, status, supplier, invoice_received)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, o.Date, o.DeliveryTime, o.Status, o.Supplier, o.InvoiceReceived,
		)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for n, it := range o.Items {
			batch.Queue(`
				INSERT INTO order_items (order_id, line_no, product_code, quantity, unit_price)
				VALUES ($1, $2, $3, $4, $5)`,
				id, n+1, it.ProductCode, it.Quantity, it.UnitPrice,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return 0, storageErr("insert order", err)
	}
	o.ID = id
	return id, nil
}

// GetByID pedido completo o nil, nil.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1 ORDER BY i.line_no`, id)
}

// GetForUpdate bloquea la cabecera del pedido hasta el fin de la transacción.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE o.id = $1 ORDER BY i.line_no FOR UPDATE OF o`, id)
}

func (r *OrderRepo) getOne(ctx context.Context, query string, id int64) (*entity.Order, error) {
	list, err := r.query(ctx, query, id)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// List pedidos por ID ascendente.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	return r.query(ctx, orderSelect+` ORDER BY o.id, i.line_no`)
}

// ListByStatus pedidos con el estado dado.
func (r *OrderRepo) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	return r.query(ctx, orderSelect+` WHERE o.status = $1 ORDER BY o.id, i.line_no`, status)
}

// UpdateStatus cambia solo el estado.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	return r.exec(ctx, "update order status", id, `UPDATE orders SET status = $2 WHERE id = $1`, status)
}

// UpdateInvoiceReceived cambia solo la marca de nota fiscal.
func (r *OrderRepo) UpdateInvoiceReceived(ctx context.Context, id int64, received bool) error {
	return r.exec(ctx, "update invoice received", id, `UPDATE orders SET invoice_received = $2 WHERE id = $1`, received)
}

func (r *OrderRepo) exec(ctx context.Context, op string, id int64, query string, arg any) error {
	cmd, err := r.q.Exec(ctx, query, id, arg)
	if err != nil {
		return storageErr(op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: pedido #%d", domain.ErrNotFound, id)
	}
	return nil
}

// query agrupa las filas del LEFT JOIN por pedido, en el orden en que llegan.
func (r *OrderRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	defer rows.Close()

	var (
		list    []*entity.Order
		current *entity.Order
	)
	for rows.Next() {
		var (
			o         entity.Order
			date      time.Time
			code      *int64
			quantity  decimal.NullDecimal
			unitPrice decimal.NullDecimal
		)
		if err := rows.Scan(&o.ID, &date, &o.DeliveryTime, &o.Status, &o.Supplier, &o.InvoiceReceived,
			&code, &quantity, &unitPrice); err != nil {
			return nil, storageErr("scan order", err)
		}
		if current == nil || current.ID != o.ID {
			o.Date = date
			o.Items = []entity.OrderItem{}
			current = &o
			list = append(list, current)
		}
		if code != nil {
			current.Items = append(current.Items, entity.OrderItem{
				ProductCode: *code,
				Quantity:    quantity.Decimal,
				UnitPrice:   unitPrice.Decimal,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list orders", err)
	}
	return list, nil
}
