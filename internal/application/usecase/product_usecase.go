package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meatpack/estoque/internal/application/dto"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
	"github.com/meatpack/estoque/pkg/logger"
	"github.com/meatpack/estoque/pkg/textutil"
)

// ProductUseCase casos de uso CRUD para productos. La cantidad la mueven también entregas y salidas.
type ProductUseCase struct {
	repo repository.ProductRepository
	log  *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, log: log.Named("products")}
}

// Add registra un producto. Code 0 recibe el siguiente código libre.
func (uc *ProductUseCase) Add(ctx context.Context, in dto.ProductRequest) (*entity.Product, error) {
	product, err := toProduct(in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("code", product.Code).Str("description", product.Description).Msg("producto registrado")
	return product, nil
}

// GetAll todos los productos por código.
func (uc *ProductUseCase) GetAll(ctx context.Context) ([]*entity.Product, error) {
	return uc.repo.List(ctx)
}

// Search filtra por código, descripción, proveedor o categoría sin distinguir mayúsculas.
// Consulta vacía = GetAll.
func (uc *ProductUseCase) Search(ctx context.Context, query string) ([]*entity.Product, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := textutil.Fold(query)
	if q == "" {
		return all, nil
	}
	var out []*entity.Product
	for _, p := range all {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matches(p *entity.Product, folded string) bool {
	for _, field := range []string{strconv.FormatInt(p.Code, 10), p.Description, p.Supplier, string(p.Category)} {
		if strings.Contains(textutil.Fold(field), folded) {
			return true
		}
	}
	return false
}

// Get producto por código; domain.ErrNotFound si no existe.
func (uc *ProductUseCase) Get(ctx context.Context, code int64) (*entity.Product, error) {
	p, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, code)
	}
	return p, nil
}

// Update reemplaza el producto completo identificado por in.Code.
func (uc *ProductUseCase) Update(ctx context.Context, in dto.ProductRequest) (*entity.Product, error) {
	if in.Code <= 0 {
		return nil, fmt.Errorf("%w: código requerido", domain.ErrValidation)
	}
	product, err := toProduct(in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateLastDelivery fija la fecha de última entrega.
func (uc *ProductUseCase) UpdateLastDelivery(ctx context.Context, code int64, date time.Time) error {
	return uc.repo.UpdateLastDelivery(ctx, code, date)
}

// Delete elimina el producto; pedidos y movimientos que lo referencian se conservan.
func (uc *ProductUseCase) Delete(ctx context.Context, code int64) error {
	if err := uc.repo.Delete(ctx, code); err != nil {
		return err
	}
	uc.log.Info().Int64("code", code).Msg("producto eliminado")
	return nil
}

// Suppliers proveedores conocidos, ordenados (autocompletar).
func (uc *ProductUseCase) Suppliers(ctx context.Context) ([]string, error) {
	return uc.repo.ListSuppliers(ctx)
}

func toProduct(in dto.ProductRequest) (*entity.Product, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Supplier = strings.TrimSpace(in.Supplier)
	in.Category = strings.TrimSpace(in.Category)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	return &entity.Product{
		Code:         in.Code,
		Description:  in.Description,
		Quantity:     in.Quantity,
		Category:     entity.Category(in.Category),
		UnitPrice:    in.UnitPrice,
		Supplier:     in.Supplier,
		LastDelivery: in.LastDelivery,
	}, nil
}
