package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/meatpack/estoque/internal/application/dto"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/domain/entity"
	"github.com/meatpack/estoque/internal/domain/repository"
	"github.com/meatpack/estoque/pkg/logger"
	"github.com/meatpack/estoque/pkg/validation"
)

// errInvalidCredentials un único mensaje para email desconocido y contraseña incorrecta.
var errInvalidCredentials = fmt.Errorf("%w: credenciales inválidas", domain.ErrInvalidCredentials)

// ClientUseCase casos de uso de clientes: registro y login.
type ClientUseCase struct {
	repo repository.ClientRepository
	log  *logger.Logger
	cost int
	now  func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, log *logger.Logger) *ClientUseCase {
	return &ClientUseCase{repo: repo, log: log.Named("auth"), cost: bcrypt.DefaultCost, now: time.Now}
}

// WithHashCost cambia el costo de bcrypt (tests usan bcrypt.MinCost).
func (uc *ClientUseCase) WithHashCost(cost int) *ClientUseCase {
	uc.cost = cost
	return uc
}

// Register valida el formulario, hashea la contraseña con bcrypt y persiste el cliente.
// domain.ErrValidation si algún campo no cumple; domain.ErrDuplicate si el email o el CPF ya existen.
func (uc *ClientUseCase) Register(ctx context.Context, in dto.RegisterClientRequest) (*entity.Client, error) {
	in.Email = normalizeEmail(in.Email)
	in.Password = strings.TrimSpace(in.Password)
	in.Nickname = strings.TrimSpace(in.Nickname)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	client := &entity.Client{
		Nickname:     in.Nickname,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Address: entity.Address{
			Street:       strings.TrimSpace(in.Street),
			Number:       strings.TrimSpace(in.Number),
			District:     strings.TrimSpace(in.District),
			Municipality: strings.TrimSpace(in.Municipality),
		},
		CPF:         validation.NormalizeCPF(in.CPF),
		Email:       in.Email,
		Phone:       validation.NormalizePhone(in.Phone, validation.DefaultRegion),
		AcceptTerms: in.AcceptTerms,
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("client_id", client.ID).Msg("cliente registrado")
	return client, nil
}

// Login verifica email y contraseña. Cualquier discrepancia es domain.ErrInvalidCredentials.
func (uc *ClientUseCase) Login(ctx context.Context, email, password string) (*entity.Client, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, errInvalidCredentials
	}
	client, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return client, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
