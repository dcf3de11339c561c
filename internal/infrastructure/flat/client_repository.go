package flat

import (
	"context"
	"fmt"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes sobre el blob USERS.
type ClientRepo struct {
	run runner
}

// Create verifica unicidad de email y CPF dentro de la unidad y agrega el cliente con ID max+1.
func (r *ClientRepo) Create(ctx context.Context, client *entity.Client) error {
	return r.run(ctx, []Collection{Clients}, func(u *unit) error {
		list, err := u.clientList()
		if err != nil {
			return err
		}
		var maxID int64
		for _, c := range list {
			if c.Email == client.Email || c.CPF == client.CPF {
				return fmt.Errorf("%w: email o CPF ya registrado", domain.ErrDuplicate)
			}
			maxID = max(maxID, c.ID)
		}
		client.ID = maxID + 1
		u.clients = append(list, cloneClient(client))
		u.touch(Clients)
		return nil
	})
}

// FindByEmail busca por email normalizado.
func (r *ClientRepo) FindByEmail(ctx context.Context, email string) (*entity.Client, error) {
	var found *entity.Client
	err := r.run(ctx, []Collection{Clients}, func(u *unit) error {
		list, err := u.clientList()
		if err != nil {
			return err
		}
		for _, c := range list {
			if c.Email == email {
				found = cloneClient(c)
				return nil
			}
		}
		return nil
	})
	return found, err
}
