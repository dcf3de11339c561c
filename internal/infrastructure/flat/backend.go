// Package flat implementa el backend de almacenamiento plano: cada colección es un arreglo JSON
// guardado bajo una clave con espacio de nombres y sufijo de versión (p. ej. MEATPACK_PRODUCTS_V2).
//
// Cada operación bloquea las colecciones que toca en un orden global fijo, carga los blobs,
// aplica los cambios en memoria y escribe todos los blobs modificados en una sola escritura
// atómica. Así dos escritores concurrentes sobre la misma colección nunca pisan sus cambios.
package flat

import (
	"context"
	"fmt"

	"github.com/meatpack/estoque/internal/application/inventory"
	"github.com/meatpack/estoque/internal/application/ports"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/repository"
	"github.com/meatpack/estoque/internal/infrastructure/kv"
	"github.com/meatpack/estoque/pkg/logger"
)

var _ ports.Backend = (*Backend)(nil)
var _ inventory.TxRunner = (*Backend)(nil)

// Store almacén clave-valor subyacente (kv.RedisStore, kv.BadgerStore o kv.MemoryStore).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Write escribe todas las entradas de forma atómica y falla si alguno de held ya no es válido.
	Write(ctx context.Context, entries map[string][]byte, held ...kv.Lease) error
	Lock(ctx context.Context, key string) (kv.Lease, error)
	Close() error
}

// Collection nombre de colección dentro de la clave.
type Collection string

const (
	Clients   Collection = "USERS"
	Products  Collection = "PRODUCTS"
	Suppliers Collection = "FORNECEDORES"
	Orders    Collection = "PEDIDOS"
	Movements Collection = "MOVIMENTOS"
)

// lockOrder orden global de bloqueo; evita interbloqueos entre unidades.
var lockOrder = []Collection{Clients, Products, Suppliers, Orders, Movements}

// Keys construye las claves de cada colección.
type Keys struct {
	Prefix  string
	Version int
}

// DefaultKeys MEATPACK_*_V2.
func DefaultKeys() Keys {
	return Keys{Prefix: "MEATPACK", Version: 2}
}

// Key devuelve "<Prefix>_<Collection>_V<Version>".
func (k Keys) Key(c Collection) string {
	return fmt.Sprintf("%s_%s_V%d", k.Prefix, c, k.Version)
}

// runner ejecuta fn dentro de una unidad que cubre cols.
type runner func(ctx context.Context, cols []Collection, fn func(u *unit) error) error

// Backend implementación plana de ports.Backend.
type Backend struct {
	store Store
	keys  Keys
	log   *logger.Logger
}

// NewBackend construye el backend sobre store.
func NewBackend(store Store, keys Keys, log *logger.Logger) *Backend {
	return &Backend{store: store, keys: keys, log: log}
}

func (b *Backend) Kind() ports.BackendKind { return ports.BackendFlat }

// EnsureSchema no hace nada: las colecciones se crean con la primera escritura.
func (b *Backend) EnsureSchema(context.Context) error { return nil }

func (b *Backend) Clients() repository.ClientRepository { return &ClientRepo{run: b.unitOf} }

func (b *Backend) Products() repository.ProductRepository { return &ProductRepo{run: b.unitOf} }

func (b *Backend) Orders() repository.OrderRepository { return &OrderRepo{run: b.unitOf} }

func (b *Backend) Movements() repository.StockMovementRepository {
	return &MovementRepo{run: b.unitOf}
}

// Run bloquea todas las colecciones y ejecuta fn con repositorios atados a la misma unidad.
// Si fn devuelve error no se escribe ningún blob.
func (b *Backend) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return b.unitOf(ctx, lockOrder, func(u *unit) error {
		return fn(&ProductRepo{run: u.bound}, &OrderRepo{run: u.bound}, &MovementRepo{run: u.bound})
	})
}

// Close cierra el almacén.
func (b *Backend) Close() error {
	return b.store.Close()
}

func (b *Backend) unitOf(ctx context.Context, cols []Collection, fn func(u *unit) error) error {
	held, err := b.lock(ctx, cols)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	defer release(held)

	u := newUnit(ctx, b.store, b.keys, held)
	if err := fn(u); err != nil {
		return err
	}
	if err := u.commit(); err != nil {
		b.log.Error().Err(err).Msg("flat: escritura de colecciones")
		return err
	}
	return nil
}

func (b *Backend) lock(ctx context.Context, cols []Collection) ([]kv.Lease, error) {
	want := make(map[Collection]bool, len(cols))
	for _, c := range cols {
		want[c] = true
	}
	var held []kv.Lease
	for _, c := range lockOrder {
		if !want[c] {
			continue
		}
		lease, err := b.store.Lock(ctx, b.keys.Key(c))
		if err != nil {
			release(held)
			return nil, err
		}
		held = append(held, lease)
	}
	return held, nil
}

func release(held []kv.Lease) {
	for i := len(held) - 1; i >= 0; i-- {
		held[i].Release()
	}
}
