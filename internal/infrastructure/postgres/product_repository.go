package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `code, description, quantity, category, unit_price, supplier, last_delivery`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Con Code 0 bloquea la tabla y asigna max+1.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		if p.Code == 0 {
			if _, err := tx.Exec(ctx, `LOCK TABLE products IN SHARE ROW EXCLUSIVE MODE`); err != nil {
				return err
			}
			if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(code), 0) + 1 FROM products`).Scan(&p.Code); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO products (`+productColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.Code, p.Description, p.Quantity, p.Category, p.UnitPrice, p.Supplier, p.LastDelivery,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código %d o descripción %q ya registrados", domain.ErrDuplicate, p.Code, p.Description)
		}
		return storageErr("insert product", err)
	}
	return nil
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code int64) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code)
}

// GetForUpdate obtiene el producto y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, code int64) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1 FOR UPDATE`, code)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, code int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get product", err)
	}
	return p, nil
}

// List lista todos los productos por código.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY code`)
	if err != nil {
		return nil, storageErr("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, storageErr("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list products", err)
	}
	return list, nil
}

// Update reemplaza todas las columnas del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET description = $2, quantity = $3, category = $4, unit_price = $5,
			supplier = $6, last_delivery = $7
		WHERE code = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.Code, p.Description, p.Quantity, p.Category, p.UnitPrice, p.Supplier, p.LastDelivery,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con la descripción %q", domain.ErrDuplicate, p.Description)
		}
		return storageErr("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, p.Code)
	}
	return nil
}

// UpdateStock fija la cantidad (usado por el motor de inventario); lastDelivery nil conserva la fecha.
func (r *ProductRepo) UpdateStock(ctx context.Context, code int64, quantity decimal.Decimal, lastDelivery *time.Time) error {
	return r.exec(ctx, "update product stock", code,
		`UPDATE products SET quantity = $2, last_delivery = COALESCE($3, last_delivery) WHERE code = $1`,
		quantity, lastDelivery,
	)
}

// UpdateLastDelivery actualiza solo la fecha de última entrega.
func (r *ProductRepo) UpdateLastDelivery(ctx context.Context, code int64, date time.Time) error {
	return r.exec(ctx, "update last delivery", code,
		`UPDATE products SET last_delivery = $2 WHERE code = $1`, date)
}

// Delete elimina el producto. Pedidos y movimientos conservan su código.
func (r *ProductRepo) Delete(ctx context.Context, code int64) error {
	return r.exec(ctx, "delete product", code, `DELETE FROM products WHERE code = $1`)
}

// ListSuppliers proveedores distintos de los productos.
func (r *ProductRepo) ListSuppliers(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT supplier FROM products WHERE supplier <> '' ORDER BY supplier`)
	if err != nil {
		return nil, storageErr("list suppliers", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storageErr("list suppliers", err)
	}
	return names, nil
}

func (r *ProductRepo) exec(ctx context.Context, op string, code int64, query string, args ...any) error {
	cmd, err := r.q.Exec(ctx, query, append([]any{code}, args...)...)
	if err != nil {
		return storageErr(op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, code)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.Code, &p.Description, &p.Quantity, &p.Category, &p.UnitPrice, &p.Supplier, &p.LastDelivery)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
