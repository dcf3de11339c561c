package report

import (
	"context"

	"github.com/meatpack/estoque/internal/domain/entity"
)

// OrderLineForPDF línea del pedido con la descripción del producto resuelta.
type OrderLineForPDF struct {
	entity.OrderItem
	Description string
}

// OrderPDFGenerator genera el documento de pedido para el proveedor.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.Order, lines []OrderLineForPDF) ([]byte, error)
}

// StockSheetGenerator exporta el stock actual a una planilla.
type StockSheetGenerator interface {
	GenerateStockSheet(ctx context.Context, products []*entity.Product) ([]byte, error)
}
