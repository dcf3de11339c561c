package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del pedido de compra. La única transición es aguardando -> entregue.
type OrderStatus string

const (
	OrderStatusAwaiting  OrderStatus = "aguardando"
	OrderStatusFulfilled OrderStatus = "entregue"
)

// Valid indica si s es un estado conocido.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusAwaiting || s == OrderStatusFulfilled
}

// OrderItem línea del pedido. UnitPrice es una foto del precio al momento del pedido.
type OrderItem struct {
	ProductCode int64           `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Subtotal cantidad * precio unitario.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Order pedido de compra a un proveedor. Solo Status e InvoiceReceived cambian después de crearlo.
type Order struct {
	ID              int64       `json:"id"`
	Date            time.Time   `json:"date"`
	DeliveryTime    string      `json:"delivery_time,omitempty"` // HH:MM
	Items           []OrderItem `json:"items"`
	Status          OrderStatus `json:"status"`
	Supplier        string      `json:"supplier"`
	InvoiceReceived bool        `json:"invoice_received"`
}

// Total suma de los subtotales de las líneas.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
