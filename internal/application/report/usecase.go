// Package report documentos de solo lectura: pedido de compra en PDF y planilla de stock.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/repository"
)

// UseCase genera los documentos a partir del backend activo.
type UseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	pdf      OrderPDFGenerator
	sheet    StockSheetGenerator
	now      func() time.Time
}

// NewUseCase construye el caso de uso inyectando repositorios y generadores.
func NewUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	pdf OrderPDFGenerator,
	sheet StockSheetGenerator,
) *UseCase {
	return &UseCase{orders: orders, products: products, pdf: pdf, sheet: sheet, now: time.Now}
}

// OrderPDF documento del pedido id y nombre de archivo sugerido. domain.ErrNotFound si no existe.
// Las líneas cuyo producto ya fue eliminado se imprimen con el código.
func (uc *UseCase) OrderPDF(ctx context.Context, id int64) (pdfBytes []byte, filename string, err error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", fmt.Errorf("%w: pedido #%d", domain.ErrNotFound, id)
	}

	lines := make([]OrderLineForPDF, 0, len(order.Items))
	for _, it := range order.Items {
		desc := fmt.Sprintf("Produto %d", it.ProductCode)
		if p, pErr := uc.products.GetByCode(ctx, it.ProductCode); pErr == nil && p != nil {
			desc = p.Description
		}
		lines = append(lines, OrderLineForPDF{OrderItem: it, Description: desc})
	}

	pdfBytes, err = uc.pdf.GenerateOrderPDF(ctx, order, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("pedido_%d.pdf", order.ID), nil
}

// StockSheet planilla XLSX con el stock actual y nombre de archivo sugerido.
func (uc *UseCase) StockSheet(ctx context.Context) ([]byte, string, error) {
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.sheet.GenerateStockSheet(ctx, products)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: generación fallida: %w", err)
	}
	return b, fmt.Sprintf("estoque_%s.xlsx", uc.now().Format("20060102")), nil
}
