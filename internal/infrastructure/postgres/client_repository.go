package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste el cliente; los índices únicos de email y CPF deciden los duplicados.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (nickname, password_hash, full_name, street, number, district, municipality,
			cpf, email, phone, accept_terms, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.Nickname, c.PasswordHash, c.FullName,
		c.Address.Street, c.Address.Number, c.Address.District, c.Address.Municipality,
		c.CPF, c.Email, c.Phone, c.AcceptTerms, c.Verified, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email o CPF ya registrado", domain.ErrDuplicate)
		}
		return storageErr("insert client", err)
	}
	return nil
}

// FindByEmail obtiene un cliente por email (sin distinguir mayúsculas).
func (r *ClientRepo) FindByEmail(ctx context.Context, email string) (*entity.Client, error) {
	query := `
		SELECT id, nickname, password_hash, full_name, street, number, district, municipality,
			cpf, email, phone, accept_terms, verified, created_at
		FROM clients WHERE lower(email) = lower($1)`
	var c entity.Client
	err := r.q.QueryRow(ctx, query, email).Scan(
		&c.ID, &c.Nickname, &c.PasswordHash, &c.FullName,
		&c.Address.Street, &c.Address.Number, &c.Address.District, &c.Address.Municipality,
		&c.CPF, &c.Email, &c.Phone, &c.AcceptTerms, &c.Verified, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get client by email", err)
	}
	return &c, nil
}
