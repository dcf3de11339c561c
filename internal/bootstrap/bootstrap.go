// Package bootstrap arma los casos de uso sobre el backend de persistencia activo.
package bootstrap

import (
	"context"

	"github.com/meatpack/estoque/internal/application/auth"
	"github.com/meatpack/estoque/internal/application/inventory"
	"github.com/meatpack/estoque/internal/application/ports"
	"github.com/meatpack/estoque/internal/application/report"
	"github.com/meatpack/estoque/internal/application/usecase"
	infrapdf "github.com/meatpack/estoque/internal/infrastructure/pdf"
	"github.com/meatpack/estoque/internal/infrastructure/storage"
	"github.com/meatpack/estoque/internal/infrastructure/xlsx"
	"github.com/meatpack/estoque/pkg/config"
	"github.com/meatpack/estoque/pkg/logger"
)

// App casos de uso listos para la UI o la CLI, todos sobre el mismo backend.
type App struct {
	Backend  ports.Backend
	Clients  *auth.ClientUseCase
	Products *usecase.ProductUseCase
	Orders   *usecase.OrderUseCase
	Stock    *inventory.StockUseCase
	Reports  *report.UseCase
	Log      *logger.Logger
}

// New cablea los casos de uso sobre backend. No toca el esquema.
func New(backend ports.Backend, appName string, log *logger.Logger) *App {
	stockUC := inventory.NewStockUseCase(backend, backend.Movements(), log)
	return &App{
		Backend:  backend,
		Clients:  auth.NewClientUseCase(backend.Clients(), log),
		Products: usecase.NewProductUseCase(backend.Products(), log),
		Orders:   usecase.NewOrderUseCase(backend.Orders(), backend, stockUC, log),
		Stock:    stockUC,
		Reports: report.NewUseCase(backend.Orders(), backend.Products(),
			infrapdf.NewMarotoPDFGenerator(appName), xlsx.NewStockSheetGenerator()),
		Log: log,
	}
}

// Open arranque completo: elige el backend, asegura el esquema y cablea la App.
// Un fallo de esquema es fatal y se devuelve envolviendo domain.ErrStorage.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	selected, err := storage.NewSelector(cfg, log).Backend(ctx)
	if err != nil {
		return nil, err
	}
	if err := selected.EnsureSchema(ctx); err != nil {
		_ = selected.Close()
		return nil, err
	}
	log.Info().Str("backend", string(selected.Kind())).Msg("almacenamiento listo")
	return New(selected, cfg.App.Name, log), nil
}

// Close libera el backend.
func (a *App) Close() error {
	return a.Backend.Close()
}
