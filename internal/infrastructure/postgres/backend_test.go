package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
	"github.com/meatpack/estoque/internal/infrastructure/postgres"
	"github.com/meatpack/estoque/pkg/config"
	"github.com/meatpack/estoque/pkg/logger"
)

// openTestBackend requiere MEATPACK_TEST_DATABASE_URL apuntando a una base desechable.
func openTestBackend(t *testing.T) *postgres.Backend {
	t.Helper()
	url := os.Getenv("MEATPACK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("MEATPACK_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 4})
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS stock_movements, order_items, orders, products, clients`)
	require.NoError(t, err)

	b := postgres.NewBackend(pool, logger.Nop())
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.EnsureSchema(ctx))
	require.NoError(t, b.EnsureSchema(ctx), "EnsureSchema debe ser idempotente")
	return b
}

func kg(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestClientRepo_Duplicados(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	c := &entity.Client{Nickname: "ana", PasswordHash: "h", FullName: "Ana", CPF: "52998224725", Email: "ana@x.com", CreatedAt: time.Now()}
	require.NoError(t, b.Clients().Create(ctx, c))
	assert.NotZero(t, c.ID)

	err := b.Clients().Create(ctx, &entity.Client{Nickname: "b", PasswordHash: "h", FullName: "B", CPF: "11144477735", Email: "ANA@x.com", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := b.Clients().FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "52998224725", got.CPF)
}

func TestProductRepo_RoundTrip(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	repo := b.Products()

	require.NoError(t, repo.Create(ctx, &entity.Product{Code: 7, Description: "Fraldinha", Quantity: kg("12.5"), Category: entity.CategoryBovine, UnitPrice: kg("39.90"), Supplier: "Friboi"}))
	auto := &entity.Product{Description: "Coxa", Category: entity.CategoryPoultry, Supplier: "Sadia"}
	require.NoError(t, repo.Create(ctx, auto))
	assert.Equal(t, int64(8), auto.Code)

	err := repo.Create(ctx, &entity.Product{Code: 9, Description: "FRALDINHA", Category: entity.CategoryBovine})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p, err := repo.GetByCode(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, kg("12.5").Equal(p.Quantity))
	assert.Equal(t, entity.CategoryBovine, p.Category)

	// gramos y centavos vuelven exactos
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: 20, Description: "Straße", Quantity: kg("1.125"), Category: entity.CategoryOther, UnitPrice: kg("10.99"), Supplier: "Friboi"}))
	exact, err := repo.GetByCode(ctx, 20)
	require.NoError(t, err)
	assert.True(t, kg("1.125").Equal(exact.Quantity))
	assert.True(t, kg("10.99").Equal(exact.UnitPrice))
	// lower() no hace case folding completo, igual que el backend plano
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: 21, Description: "STRASSE", Category: entity.CategoryOther, Supplier: "Friboi"}))

	assert.ErrorIs(t, repo.Delete(ctx, 404), domain.ErrNotFound)

	suppliers, err := repo.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Friboi", "Sadia"}, suppliers)
}

func TestOrderRepo_ItemsYEstado(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	order := &entity.Order{
		Date:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Status: entity.OrderStatusAwaiting, Supplier: "Friboi",
		Items: []entity.OrderItem{
			{ProductCode: 1, Quantity: kg("5"), UnitPrice: kg("10")},
			{ProductCode: 2, Quantity: kg("3"), UnitPrice: kg("20")},
		},
	}
	id, err := b.Orders().Create(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := b.Orders().GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, int64(2), got.Items[1].ProductCode)
	assert.True(t, kg("110").Equal(got.Total()))

	require.NoError(t, b.Orders().UpdateStatus(ctx, id, entity.OrderStatusFulfilled))
	fulfilled, err := b.Orders().ListByStatus(ctx, entity.OrderStatusFulfilled)
	require.NoError(t, err)
	assert.Len(t, fulfilled, 1)
	assert.ErrorIs(t, b.Orders().UpdateInvoiceReceived(ctx, 99, true), domain.ErrNotFound)
}

func TestBackend_RunRollback(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	require.NoError(t, b.Products().Create(ctx, &entity.Product{Code: 1, Description: "Alcatra", Quantity: kg("10"), Category: entity.CategoryBovine}))

	boom := errors.New("boom")
	err := b.Run(ctx, func(pr repository.ProductRepository, _ repository.OrderRepository, mr repository.StockMovementRepository) error {
		p, err := pr.GetForUpdate(ctx, 1)
		if err != nil {
			return err
		}
		if err := pr.UpdateStock(ctx, 1, p.Quantity.Sub(kg("4")), nil); err != nil {
			return err
		}
		if err := mr.Create(ctx, &entity.StockMovement{TransactionID: "t", ProductCode: 1, Date: time.Now(), Type: entity.MovementTypeOut, Quantity: kg("4")}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := b.Products().GetByCode(ctx, 1)
	require.NoError(t, err)
	assert.True(t, kg("10").Equal(p.Quantity))
	movs, err := b.Movements().ListByProduct(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, movs)
}
