package dto

import "github.com/shopspring/decimal"

// WithdrawalRequest salida de stock de un producto.
type WithdrawalRequest struct {
	ProductCode int64           `json:"product_code" validate:"gt=0"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0,maxplaces=3"`
	Reason      string          `json:"reason" validate:"required,max=200"`
}
