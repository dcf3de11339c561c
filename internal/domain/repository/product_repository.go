package repository

import (
	"context"
	"time"

	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos de lectura devuelven nil, nil cuando el código no existe.
type ProductRepository interface {
	// Create persiste el producto; si Code es 0 asigna max+1.
	// Devuelve domain.ErrDuplicate si el código o la descripción (sin mayúsculas) ya existen.
	Create(ctx context.Context, product *entity.Product) error
	GetByCode(ctx context.Context, code int64) (*entity.Product, error)
	// GetForUpdate lee el producto bloqueándolo hasta el fin de la unidad de trabajo.
	GetForUpdate(ctx context.Context, code int64) (*entity.Product, error)
	// List devuelve todos los productos ordenados por código.
	List(ctx context.Context) ([]*entity.Product, error)
	// Update reemplaza el registro completo. domain.ErrNotFound / domain.ErrDuplicate.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock fija la cantidad; lastDelivery nil conserva la fecha actual.
	UpdateStock(ctx context.Context, code int64, quantity decimal.Decimal, lastDelivery *time.Time) error
	UpdateLastDelivery(ctx context.Context, code int64, date time.Time) error
	Delete(ctx context.Context, code int64) error
	// ListSuppliers devuelve los proveedores distintos, ordenados.
	ListSuppliers(ctx context.Context) ([]string, error)
}
