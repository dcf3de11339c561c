package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meatpack/estoque/internal/application/report"
	"github.com/meatpack/estoque/internal/domain/entity"
)

func TestFormatDecimal(t *testing.T) {
	cases := []struct {
		in     string
		places int32
		want   string
	}{
		{"0", 2, "0,00"},
		{"1234.5", 2, "1.234,50"},
		{"1000000", 2, "1.000.000,00"},
		{"12.5", 3, "12,500"},
		{"-1234.5", 2, "-1.234,50"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatDecimal(decimal.RequireFromString(tc.in), tc.places), tc.in)
	}
}

func TestGenerateOrderPDF(t *testing.T) {
	item := entity.OrderItem{ProductCode: 3, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.RequireFromString("42.9")}
	order := &entity.Order{
		ID: 7, Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), DeliveryTime: "08:30",
		Items: []entity.OrderItem{item}, Status: entity.OrderStatusAwaiting, Supplier: "Friboi",
	}
	lines := []report.OrderLineForPDF{{OrderItem: item, Description: "Picanha"}}

	b, err := NewMarotoPDFGenerator("MeatPack").GenerateOrderPDF(context.Background(), order, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}
