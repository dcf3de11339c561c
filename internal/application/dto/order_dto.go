package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemInput línea del pedido tal como la arma la pantalla.
type OrderItemInput struct {
	ProductCode int64           `json:"product_code" validate:"gt=0"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0,maxplaces=3"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0,maxplaces=2"`
}

// CreateOrderRequest pedido de compra a un proveedor.
type CreateOrderRequest struct {
	Date         time.Time        `json:"date" validate:"required"`
	DeliveryTime string           `json:"delivery_time" validate:"omitempty,datetime=15:04"`
	Supplier     string           `json:"supplier" validate:"required,max=120"`
	Items        []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}
