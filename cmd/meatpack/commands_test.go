package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/meatpack/estoque/internal/application/dto"
	"github.com/meatpack/estoque/internal/bootstrap"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/pkg/config"
	"github.com/meatpack/estoque/pkg/logger"
)

func testConfig(t *testing.T, addr string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", Name: "meatpack", Platform: "web"},
		Redis:   config.RedisConfig{Addr: addr},
		Storage: config.StorageConfig{Backend: "flat", KeyPrefix: "MEATPACK", KeyVersion: 2, LockTTL: time.Second, DataDir: t.TempDir()},
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(cfg, logger.Nop())
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"meatpack"}, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr.Addr())

	seed, err := bootstrap.Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	_, err = seed.Products.Add(ctx, dto.ProductRequest{
		Code: 7, Description: "Alcatra", Quantity: decimal.RequireFromString("4"),
		Category: "Bovina", UnitPrice: decimal.RequireFromString("52.5"), Supplier: "Minerva",
	})
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	out, err := run(t, cfg, "init")
	require.NoError(t, err)
	assert.Equal(t, "backend: flat\n", out)

	out, err = run(t, cfg, "products", "--query", "alc")
	require.NoError(t, err)
	assert.Contains(t, out, "Alcatra")
	assert.Contains(t, out, "52.50")

	out, err = run(t, cfg, "suppliers")
	require.NoError(t, err)
	assert.Equal(t, "Minerva\n", out)

	out, err = run(t, cfg, "withdraw", "--code", "7", "--quantity", "1.5", "--reason", "Venda")
	require.NoError(t, err)
	assert.Contains(t, out, "1.5 kg del producto 7")

	_, err = run(t, cfg, "withdraw", "--code", "7", "--quantity", "3", "--reason", "Venda")
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	out, err = run(t, cfg, "history", "--code", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "saida")
	assert.Contains(t, out, "Venda")

	dir := t.TempDir()
	sheet := filepath.Join(dir, "estoque.xlsx")
	_, err = run(t, cfg, "export-stock", "--out", sheet)
	require.NoError(t, err)
	info, err := os.Stat(sheet)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = run(t, cfg, "order-pdf", "--id", "99", "--out", filepath.Join(dir, "x.pdf"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCommands_ForcedRelationalUnavailable(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Storage.Backend = "relational"
	cfg.DB = config.DBConfig{DatabaseURL: "postgres://u:p@127.0.0.1:1/x?sslmode=disable&connect_timeout=1", MaxConns: 1}

	_, err := run(t, cfg, "products")
	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder))
	assert.Equal(t, 2, coder.ExitCode())
}
