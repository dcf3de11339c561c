package flat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/infrastructure/kv"
)

// unit unidad de trabajo: colecciones cargadas bajo demanda y marcadas como sucias al modificarse.
type unit struct {
	ctx    context.Context
	store  Store
	keys   Keys
	held   []kv.Lease
	loaded map[Collection]bool
	dirty  map[Collection]bool

	clients   []*entity.Client
	products  []*entity.Product
	suppliers []string
	orders    []*entity.Order
	movements []*entity.StockMovement
}

func newUnit(ctx context.Context, store Store, keys Keys, held []kv.Lease) *unit {
	return &unit{
		ctx:    ctx,
		store:  store,
		keys:   keys,
		held:   held,
		loaded: make(map[Collection]bool),
		dirty:  make(map[Collection]bool),
	}
}

// bound es el runner de los repositorios creados dentro de Run: todo ocurre en u.
func (u *unit) bound(_ context.Context, _ []Collection, fn func(u *unit) error) error {
	return fn(u)
}

func (u *unit) target(c Collection) any {
	switch c {
	case Clients:
		return &u.clients
	case Products:
		return &u.products
	case Suppliers:
		return &u.suppliers
	case Orders:
		return &u.orders
	case Movements:
		return &u.movements
	}
	panic("flat: colección desconocida " + string(c))
}

func (u *unit) value(c Collection) any {
	switch c {
	case Clients:
		return orEmpty(u.clients)
	case Products:
		return orEmpty(u.products)
	case Suppliers:
		return orEmpty(u.suppliers)
	case Orders:
		return orEmpty(u.orders)
	case Movements:
		return orEmpty(u.movements)
	}
	panic("flat: colección desconocida " + string(c))
}

func (u *unit) load(c Collection) error {
	if u.loaded[c] {
		return nil
	}
	raw, err := u.store.Get(u.ctx, u.keys.Key(c))
	if err != nil {
		return fmt.Errorf("%w: leer %s: %v", domain.ErrStorage, c, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, u.target(c)); err != nil {
			return fmt.Errorf("%w: decodificar %s: %v", domain.ErrStorage, c, err)
		}
	}
	u.loaded[c] = true
	return nil
}

func (u *unit) touch(c Collection) {
	u.dirty[c] = true
}

// commit escribe en una sola operación todos los blobs modificados.
func (u *unit) commit() error {
	if len(u.dirty) == 0 {
		return nil
	}
	entries := make(map[string][]byte, len(u.dirty))
	for c := range u.dirty {
		raw, err := json.Marshal(u.value(c))
		if err != nil {
			return fmt.Errorf("%w: codificar %s: %v", domain.ErrStorage, c, err)
		}
		entries[u.keys.Key(c)] = raw
	}
	if err := u.store.Write(u.ctx, entries, u.held...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return nil
}

func (u *unit) clientList() ([]*entity.Client, error) {
	if err := u.load(Clients); err != nil {
		return nil, err
	}
	return u.clients, nil
}

func (u *unit) productList() ([]*entity.Product, error) {
	if err := u.load(Products); err != nil {
		return nil, err
	}
	return u.products, nil
}

func (u *unit) supplierList() ([]string, error) {
	if err := u.load(Suppliers); err != nil {
		return nil, err
	}
	return u.suppliers, nil
}

func (u *unit) orderList() ([]*entity.Order, error) {
	if err := u.load(Orders); err != nil {
		return nil, err
	}
	return u.orders, nil
}

func (u *unit) movementList() ([]*entity.StockMovement, error) {
	if err := u.load(Movements); err != nil {
		return nil, err
	}
	return u.movements, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
