package postgres

import (
	"context"

	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento; el ID lo asigna la secuencia.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (transaction_id, product_code, movement_date, type, quantity, reason, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.TransactionID, m.ProductCode, m.Date, m.Type, m.Quantity, m.Reason, m.OrderID,
	).Scan(&m.ID)
	if err != nil {
		return storageErr("create stock movement", err)
	}
	return nil
}

// ListByProduct movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productCode int64) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, transaction_id, product_code, movement_date, type, quantity, reason, order_id
		FROM stock_movements WHERE product_code = $1
		ORDER BY movement_date DESC, id DESC`
	rows, err := r.q.Query(ctx, query, productCode)
	if err != nil {
		return nil, storageErr("list by product", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductCode, &m.Date, &m.Type,
			&m.Quantity, &m.Reason, &m.OrderID); err != nil {
			return nil, storageErr("scan movement", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list by product", err)
	}
	return list, nil
}
