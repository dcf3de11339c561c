package flat

import "github.com/meatpack/estoque/internal/domain/entity"

// Las colecciones viven en la unidad; hacia afuera solo salen copias.

func cloneClient(c *entity.Client) *entity.Client {
	cp := *c
	return &cp
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	if p.LastDelivery != nil {
		d := *p.LastDelivery
		cp.LastDelivery = &d
	}
	return &cp
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = make([]entity.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	if m.OrderID != nil {
		id := *m.OrderID
		cp.OrderID = &id
	}
	return &cp
}
