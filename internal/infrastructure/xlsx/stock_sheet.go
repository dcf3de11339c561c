// Package xlsx exporta el stock a planillas Excel.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/meatpack/estoque/internal/application/report"
	"github.com/meatpack/estoque/internal/domain/entity"
)

var _ report.StockSheetGenerator = (*StockSheetGenerator)(nil)

// SheetName hoja con el stock.
const SheetName = "Estoque"

var headings = []string{"Código", "Descrição", "Categoria", "Quantidade (kg)", "Preço/kg", "Fornecedor", "Última entrega"}

// StockSheetGenerator implementa report.StockSheetGenerator con excelize.
type StockSheetGenerator struct{}

// NewStockSheetGenerator construye el generador.
func NewStockSheetGenerator() *StockSheetGenerator { return &StockSheetGenerator{} }

// GenerateStockSheet una fila por producto, debajo de la cabecera.
func (g *StockSheetGenerator) GenerateStockSheet(_ context.Context, products []*entity.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	for i, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: cabecera: %w", err)
		}
	}

	for i, p := range products {
		lastDelivery := ""
		if p.LastDelivery != nil {
			lastDelivery = p.LastDelivery.Format("02/01/2006")
		}
		qty, _ := p.Quantity.Float64()
		price, _ := p.UnitPrice.Float64()
		values := []any{p.Code, p.Description, string(p.Category), qty, price, p.Supplier, lastDelivery}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
