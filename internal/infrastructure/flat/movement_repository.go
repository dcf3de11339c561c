package flat

import (
	"context"
	"sort"

	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de stock sobre el blob MOVIMENTOS (solo se agrega).
type MovementRepo struct {
	run runner
}

// Create asigna ID = max+1 y agrega el movimiento.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	return r.run(ctx, []Collection{Movements}, func(u *unit) error {
		list, err := u.movementList()
		if err != nil {
			return err
		}
		var maxID int64
		for _, m := range list {
			maxID = max(maxID, m.ID)
		}
		movement.ID = maxID + 1
		u.movements = append(list, cloneMovement(movement))
		u.touch(Movements)
		return nil
	})
}

// ListByProduct movimientos del producto, más recientes primero (fecha desc, ID desc).
func (r *MovementRepo) ListByProduct(ctx context.Context, productCode int64) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.run(ctx, []Collection{Movements}, func(u *unit) error {
		list, err := u.movementList()
		if err != nil {
			return err
		}
		for _, m := range list {
			if m.ProductCode == productCode {
				out = append(out, cloneMovement(m))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}
