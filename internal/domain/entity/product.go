package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category clasificación del corte de carne.
type Category string

// Categorías admitidas (valores persistidos tal cual).
const (
	CategoryBovine  Category = "Bovina"
	CategorySwine   Category = "Suína"
	CategoryPoultry Category = "Aves"
	CategoryOther   Category = "Outros"
)

// Categories lista las categorías válidas en orden de presentación.
func Categories() []Category {
	return []Category{CategoryBovine, CategorySwine, CategoryPoultry, CategoryOther}
}

// Valid indica si c es una de las categorías admitidas.
func (c Category) Valid() bool {
	switch c {
	case CategoryBovine, CategorySwine, CategoryPoultry, CategoryOther:
		return true
	}
	return false
}

// Product representa un ítem en stock.
// Code es la identidad (asignada por el llamador o max+1); Description es única sin distinguir mayúsculas.
// Quantity está en kilogramos y nunca queda negativa por una salida.
type Product struct {
	Code         int64           `json:"code"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	Category     Category        `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Supplier     string          `json:"supplier"`
	LastDelivery *time.Time      `json:"last_delivery,omitempty"`
}
