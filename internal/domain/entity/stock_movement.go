package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del libro de stock.
type MovementType string

const (
	MovementTypeIn  MovementType = "entrada"
	MovementTypeOut MovementType = "saida"
)

// StockMovement registro inmutable del libro de stock (solo se agregan, nunca se modifican).
// TransactionID agrupa los registros escritos por una misma operación del motor.
// OrderID solo está presente en entradas generadas al entregar un pedido.
type StockMovement struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductCode   int64           `json:"product_code"`
	Date          time.Time       `json:"date"`
	Type          MovementType    `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason"`
	OrderID       *int64          `json:"order_id,omitempty"`
}
