package validation

import "github.com/shopspring/decimal"

// Decimales admitidos; coinciden con NUMERIC(14,3) y NUMERIC(14,2) del motor relacional.
const (
	QuantityPlaces = 3 // kilogramos, hasta el gramo
	PricePlaces    = 2 // centavos
)

// HasMaxPlaces indica si d no tiene más de places decimales significativos ("10.990" tiene 2).
func HasMaxPlaces(d decimal.Decimal, places int32) bool {
	return d.Truncate(places).Equal(d)
}
