package flat_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
	"github.com/meatpack/estoque/internal/infrastructure/flat"
	"github.com/meatpack/estoque/internal/infrastructure/kv"
	"github.com/meatpack/estoque/pkg/logger"
)

func newBackend(t *testing.T) (*flat.Backend, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	b := flat.NewBackend(store, flat.DefaultKeys(), logger.Nop())
	t.Cleanup(func() { _ = b.Close() })
	return b, store
}

func kg(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestKeys_Key(t *testing.T) {
	assert.Equal(t, "MEATPACK_PRODUCTS_V2", flat.DefaultKeys().Key(flat.Products))
	assert.Equal(t, "X_FORNECEDORES_V3", flat.Keys{Prefix: "X", Version: 3}.Key(flat.Suppliers))
}

func TestClientRepo_CreateYDuplicados(t *testing.T) {
	ctx := context.Background()
	b, _ := newBackend(t)
	repo := b.Clients()

	c := &entity.Client{Nickname: "ana", Email: "ana@x.com", CPF: "52998224725"}
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, int64(1), c.ID)

	err := repo.Create(ctx, &entity.Client{Email: "ana@x.com", CPF: "11144477735"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	err = repo.Create(ctx, &entity.Client{Email: "otro@x.com", CPF: "52998224725"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repo.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ana", got.Nickname)

	missing, err := repo.FindByEmail(ctx, "nadie@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	b, _ := newBackend(t)
	repo := b.Products()

	p := &entity.Product{Code: 10, Description: "Picanha", Quantity: kg("5"), Category: entity.CategoryBovine, UnitPrice: kg("79.9"), Supplier: "Friboi"}
	require.NoError(t, repo.Create(ctx, p))

	// código 0 = max+1
	auto := &entity.Product{Description: "Lombo", Category: entity.CategorySwine, Supplier: "Seara"}
	require.NoError(t, repo.Create(ctx, auto))
	assert.Equal(t, int64(11), auto.Code)

	err := repo.Create(ctx, &entity.Product{Code: 10, Description: "Outro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	err = repo.Create(ctx, &entity.Product{Code: 99, Description: "PICANHA"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repo.GetByCode(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, kg("5").Equal(got.Quantity))

	none, err := repo.GetByCode(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, none)

	// la copia devuelta no altera lo persistido
	got.Quantity = kg("1000")
	again, _ := repo.GetByCode(ctx, 10)
	assert.True(t, kg("5").Equal(again.Quantity))

	got.Description = "Lombo"
	assert.ErrorIs(t, repo.Update(ctx, got), domain.ErrDuplicate)
	got.Description = "Picanha Premium"
	got.Supplier = "Minerva"
	require.NoError(t, repo.Update(ctx, got))

	assert.ErrorIs(t, repo.Update(ctx, &entity.Product{Code: 404, Description: "x"}), domain.ErrNotFound)

	suppliers, err := repo.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Friboi", "Minerva", "Seara"}, suppliers)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastDelivery(ctx, 10, day))
	require.NoError(t, repo.UpdateStock(ctx, 11, kg("2.5"), nil))
	assert.ErrorIs(t, repo.UpdateLastDelivery(ctx, 404, day), domain.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(10), list[0].Code)
	require.NotNil(t, list[0].LastDelivery)
	assert.True(t, day.Equal(*list[0].LastDelivery))
	assert.True(t, kg("2.5").Equal(list[1].Quantity))

	require.NoError(t, repo.Delete(ctx, 11))
	assert.ErrorIs(t, repo.Delete(ctx, 11), domain.ErrNotFound)
	list, _ = repo.List(ctx)
	assert.Len(t, list, 1)
}

func TestOrderRepo(t *testing.T) {
	ctx := context.Background()
	b, _ := newBackend(t)
	repo := b.Orders()

	mk := func() *entity.Order {
		return &entity.Order{
			Date:     time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			Items:    []entity.OrderItem{{ProductCode: 1, Quantity: kg("3"), UnitPrice: kg("10")}},
			Status:   entity.OrderStatusAwaiting,
			Supplier: "Friboi",
		}
	}
	id1, err := repo.Create(ctx, mk())
	require.NoError(t, err)
	id2, err := repo.Create(ctx, mk())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	require.NoError(t, repo.UpdateStatus(ctx, id2, entity.OrderStatusFulfilled))
	require.NoError(t, repo.UpdateInvoiceReceived(ctx, id1, true))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 99, entity.OrderStatusFulfilled), domain.ErrNotFound)

	awaiting, err := repo.ListByStatus(ctx, entity.OrderStatusAwaiting)
	require.NoError(t, err)
	require.Len(t, awaiting, 1)
	assert.Equal(t, id1, awaiting[0].ID)
	assert.True(t, awaiting[0].InvoiceReceived)

	o, err := repo.GetByID(ctx, id2)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.True(t, kg("30").Equal(o.Total()))

	none, err := repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, none)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMovementRepo_ListByProductOrden(t *testing.T) {
	ctx := context.Background()
	b, _ := newBackend(t)
	repo := b.Movements()

	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	for _, m := range []*entity.StockMovement{
		{ProductCode: 1, Date: t1, Type: entity.MovementTypeIn, Quantity: kg("1")},
		{ProductCode: 1, Date: t2, Type: entity.MovementTypeOut, Quantity: kg("2")},
		{ProductCode: 2, Date: t2, Type: entity.MovementTypeIn, Quantity: kg("3")},
		{ProductCode: 1, Date: t2, Type: entity.MovementTypeIn, Quantity: kg("4")},
	} {
		require.NoError(t, repo.Create(ctx, m))
	}

	list, err := repo.ListByProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{4, 2, 1}, []int64{list[0].ID, list[1].ID, list[2].ID})

	empty, err := repo.ListByProduct(ctx, 77)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBackend_RunDescartaSiFalla(t *testing.T) {
	ctx := context.Background()
	b, store := newBackend(t)
	require.NoError(t, b.Products().Create(ctx, &entity.Product{Code: 1, Description: "Alcatra", Quantity: kg("10")}))

	boom := errors.New("boom")
	err := b.Run(ctx, func(pr repository.ProductRepository, _ repository.OrderRepository, mr repository.StockMovementRepository) error {
		if err := pr.UpdateStock(ctx, 1, kg("0"), nil); err != nil {
			return err
		}
		if err := mr.Create(ctx, &entity.StockMovement{ProductCode: 1, Type: entity.MovementTypeOut, Quantity: kg("10")}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := b.Products().GetByCode(ctx, 1)
	assert.True(t, kg("10").Equal(p.Quantity))
	raw, err := store.Get(ctx, flat.DefaultKeys().Key(flat.Movements))
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestBackend_RunEscribeTodoJunto(t *testing.T) {
	ctx := context.Background()
	b, store := newBackend(t)
	require.NoError(t, b.Products().Create(ctx, &entity.Product{Code: 1, Description: "Alcatra", Quantity: kg("10")}))

	err := b.Run(ctx, func(pr repository.ProductRepository, _ repository.OrderRepository, mr repository.StockMovementRepository) error {
		p, err := pr.GetForUpdate(ctx, 1)
		if err != nil {
			return err
		}
		if err := pr.UpdateStock(ctx, 1, p.Quantity.Sub(kg("4")), nil); err != nil {
			return err
		}
		return mr.Create(ctx, &entity.StockMovement{ProductCode: 1, Type: entity.MovementTypeOut, Quantity: kg("4"), Reason: "Reservado para cliente"})
	})
	require.NoError(t, err)

	raw, err := store.Get(ctx, flat.DefaultKeys().Key(flat.Movements))
	require.NoError(t, err)
	var movs []entity.StockMovement
	require.NoError(t, json.Unmarshal(raw, &movs))
	require.Len(t, movs, 1)
	assert.Equal(t, "Reservado para cliente", movs[0].Reason)

	p, _ := b.Products().GetByCode(ctx, 1)
	assert.True(t, kg("6").Equal(p.Quantity))
}

func TestBackend_CreateConcurrenteSinPerdidas(t *testing.T) {
	ctx := context.Background()
	b, _ := newBackend(t)
	repo := b.Movements()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, &entity.StockMovement{ProductCode: 1, Type: entity.MovementTypeIn, Quantity: kg("1")}))
		}()
	}
	wg.Wait()

	list, err := repo.ListByProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 20)
	seen := map[int64]bool{}
	for _, m := range list {
		seen[m.ID] = true
	}
	assert.Len(t, seen, 20)
}

func TestBackend_BlobCorrupto(t *testing.T) {
	ctx := context.Background()
	b, store := newBackend(t)
	require.NoError(t, store.Write(ctx, map[string][]byte{flat.DefaultKeys().Key(flat.Products): []byte("{no es json")}))

	_, err := b.Products().List(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

// Misma regla que lower() del motor relacional: sin case folding completo.
func TestProductRepo_DescripcionMinusculasSimples(t *testing.T) {
	ctx := context.Background()
	b, _ := newBackend(t)
	repo := b.Products()

	require.NoError(t, repo.Create(ctx, &entity.Product{Code: 1, Description: "Linguiça Straße"}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: 2, Description: "LINGUIÇA STRASSE"}))
	err := repo.Create(ctx, &entity.Product{Code: 3, Description: "LINGUIÇA STRAßE"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Una unidad que pierde su bloqueo de Redis a mitad de camino no escribe nada.
func TestBackend_BloqueoVencidoNoEscribe(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := kv.NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Second)
	b := flat.NewBackend(store, flat.DefaultKeys(), logger.Nop())
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, b.Products().Create(ctx, &entity.Product{Code: 1, Description: "Alcatra", Quantity: kg("10")}))

	err := b.Run(ctx, func(pr repository.ProductRepository, _ repository.OrderRepository, _ repository.StockMovementRepository) error {
		if err := pr.UpdateStock(ctx, 1, kg("3"), nil); err != nil {
			return err
		}
		mr.FastForward(2 * time.Second)
		return nil
	})
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, kv.ErrLockLost)

	p, err := b.Products().GetByCode(ctx, 1)
	require.NoError(t, err)
	assert.True(t, kg("10").Equal(p.Quantity))
}
