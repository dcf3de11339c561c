// Package inventory reglas puras de stock (servicio de dominio, sin persistencia).
package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meatpack/estoque/internal/domain"
)

// Receive cantidad resultante de una entrada.
func Receive(current, quantity decimal.Decimal) decimal.Decimal {
	return current.Add(quantity)
}

// Withdraw cantidad resultante de una salida. La cantidad debe ser positiva y no superar lo disponible,
// así el stock nunca queda negativo.
func Withdraw(current, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrValidation)
	}
	if quantity.GreaterThan(current) {
		return decimal.Zero, fmt.Errorf("%w: disponible %s kg, solicitado %s kg",
			domain.ErrInsufficientStock, current.String(), quantity.String())
	}
	return current.Sub(quantity), nil
}

// FulfillmentReason motivo de las entradas generadas al entregar un pedido.
func FulfillmentReason(orderID int64) string {
	return fmt.Sprintf("Entrada via pedido #%d", orderID)
}

// WithdrawalReasons motivos predefinidos que ofrece la pantalla de salida.
func WithdrawalReasons() []string {
	return []string{
		"Preparo para a área de vendas",
		"Troca com fornecedor por avaria",
		"Troca com fornecedor por erro na entrega",
		"Reservado para cliente",
	}
}
