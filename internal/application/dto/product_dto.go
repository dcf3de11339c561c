package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest entrada para crear o reemplazar un producto. Code 0 en alta = asignar max+1.
type ProductRequest struct {
	Code         int64           `json:"code" validate:"gte=0"`
	Description  string          `json:"description" validate:"required,max=120"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gte=0,maxplaces=3"`
	Category     string          `json:"category" validate:"required,oneof=Bovina Suína Aves Outros"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0,maxplaces=2"`
	Supplier     string          `json:"supplier" validate:"max=120"`
	LastDelivery *time.Time      `json:"last_delivery,omitempty"`
}
