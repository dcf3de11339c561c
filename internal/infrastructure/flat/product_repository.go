package flat

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
	"github.com/meatpack/estoque/pkg/textutil"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos sobre el blob PRODUCTS; mantiene además el conjunto FORNECEDORES.
type ProductRepo struct {
	run runner
}

// Create rechaza código o descripción repetidos; Code 0 recibe max+1. Registra el proveedor si es nuevo.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.run(ctx, []Collection{Products, Suppliers}, func(u *unit) error {
		list, err := u.productList()
		if err != nil {
			return err
		}
		var maxCode int64
		for _, p := range list {
			if product.Code != 0 && p.Code == product.Code {
				return fmt.Errorf("%w: código %d ya registrado", domain.ErrDuplicate, product.Code)
			}
			if textutil.SameLower(p.Description, product.Description) {
				return fmt.Errorf("%w: ya existe un producto con la descripción %q", domain.ErrDuplicate, product.Description)
			}
			maxCode = max(maxCode, p.Code)
		}
		if product.Code == 0 {
			product.Code = maxCode + 1
		}
		u.products = append(list, cloneProduct(product))
		u.touch(Products)
		return addSupplier(u, product.Supplier)
	})
}

// GetByCode devuelve nil, nil si no existe.
func (r *ProductRepo) GetByCode(ctx context.Context, code int64) (*entity.Product, error) {
	var found *entity.Product
	err := r.run(ctx, []Collection{Products}, func(u *unit) error {
		list, err := u.productList()
		if err != nil {
			return err
		}
		if i := indexProduct(list, code); i >= 0 {
			found = cloneProduct(list[i])
		}
		return nil
	})
	return found, err
}

// GetForUpdate igual que GetByCode: dentro de Run la colección ya está bloqueada.
func (r *ProductRepo) GetForUpdate(ctx context.Context, code int64) (*entity.Product, error) {
	return r.GetByCode(ctx, code)
}

// List devuelve copias ordenadas por código.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.run(ctx, []Collection{Products}, func(u *unit) error {
		list, err := u.productList()
		if err != nil {
			return err
		}
		out = make([]*entity.Product, 0, len(list))
		for _, p := range list {
			out = append(out, cloneProduct(p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

// Update reemplaza el registro completo del código.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.run(ctx, []Collection{Products, Suppliers}, func(u *unit) error {
		list, err := u.productList()
		if err != nil {
			return err
		}
		i := indexProduct(list, product.Code)
		if i < 0 {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, product.Code)
		}
		for _, p := range list {
			if p.Code != product.Code && textutil.SameLower(p.Description, product.Description) {
				return fmt.Errorf("%w: ya existe un producto con la descripción %q", domain.ErrDuplicate, product.Description)
			}
		}
		list[i] = cloneProduct(product)
		u.touch(Products)
		return addSupplier(u, product.Supplier)
	})
}

// UpdateStock fija la cantidad y, si lastDelivery no es nil, la fecha de última entrega.
func (r *ProductRepo) UpdateStock(ctx context.Context, code int64, quantity decimal.Decimal, lastDelivery *time.Time) error {
	return r.mutate(ctx, code, func(p *entity.Product) {
		p.Quantity = quantity
		if lastDelivery != nil {
			d := *lastDelivery
			p.LastDelivery = &d
		}
	})
}

// UpdateLastDelivery fija solo la fecha de última entrega.
func (r *ProductRepo) UpdateLastDelivery(ctx context.Context, code int64, date time.Time) error {
	return r.mutate(ctx, code, func(p *entity.Product) {
		p.LastDelivery = &date
	})
}

// Delete elimina el producto. No revisa referencias desde pedidos ni movimientos.
func (r *ProductRepo) Delete(ctx context.Context, code int64) error {
	return r.run(ctx, []Collection{Products}, func(u *unit) error {
		list, err := u.productList()
		if err != nil {
			return err
		}
		i := indexProduct(list, code)
		if i < 0 {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, code)
		}
		u.products = slices.Delete(list, i, i+1)
		u.touch(Products)
		return nil
	})
}

// ListSuppliers devuelve el conjunto FORNECEDORES ordenado.
func (r *ProductRepo) ListSuppliers(ctx context.Context) ([]string, error) {
	var out []string
	err := r.run(ctx, []Collection{Suppliers}, func(u *unit) error {
		list, err := u.supplierList()
		if err != nil {
			return err
		}
		out = slices.Clone(list)
		return nil
	})
	slices.Sort(out)
	return out, err
}

func (r *ProductRepo) mutate(ctx context.Context, code int64, fn func(p *entity.Product)) error {
	return r.run(ctx, []Collection{Products}, func(u *unit) error {
		list, err := u.productList()
		if err != nil {
			return err
		}
		i := indexProduct(list, code)
		if i < 0 {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, code)
		}
		fn(list[i])
		u.touch(Products)
		return nil
	})
}

func indexProduct(list []*entity.Product, code int64) int {
	for i, p := range list {
		if p.Code == code {
			return i
		}
	}
	return -1
}

func addSupplier(u *unit, name string) error {
	if name == "" {
		return nil
	}
	list, err := u.supplierList()
	if err != nil {
		return err
	}
	if slices.Contains(list, name) {
		return nil
	}
	u.suppliers = append(list, name)
	u.touch(Suppliers)
	return nil
}
