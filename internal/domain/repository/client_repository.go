package repository

import (
	"context"

	"github.com/meatpack/estoque/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client (DIP).
type ClientRepository interface {
	// Create asigna ID y persiste. Devuelve domain.ErrDuplicate si el email o el CPF ya existen.
	Create(ctx context.Context, client *entity.Client) error
	// FindByEmail devuelve nil, nil si no existe. email debe llegar normalizado.
	FindByEmail(ctx context.Context, email string) (*entity.Client, error)
}
