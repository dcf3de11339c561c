package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meatpack/estoque/internal/application/auth"
	"github.com/meatpack/estoque/internal/application/dto"
	"github.com/meatpack/estoque/internal/domain"
	"github.com/meatpack/estoque/internal/infrastructure/flat"
	"github.com/meatpack/estoque/internal/infrastructure/kv"
	"github.com/meatpack/estoque/pkg/logger"
)

func newUseCase(t *testing.T) *auth.ClientUseCase {
	t.Helper()
	b := flat.NewBackend(kv.NewMemoryStore(), flat.DefaultKeys(), logger.Nop())
	return auth.NewClientUseCase(b.Clients(), logger.Nop()).WithHashCost(bcrypt.MinCost)
}

func validRequest() dto.RegisterClientRequest {
	return dto.RegisterClientRequest{
		Nickname:     "ana",
		Password:     "Abc123!@",
		FullName:     "Ana Souza",
		Street:       "Rua das Flores",
		Number:       "100",
		District:     "Centro",
		Municipality: "Campinas",
		CPF:          "529.982.247-25",
		Email:        " Ana@Example.com ",
		Phone:        "(19) 99876-5432",
		AcceptTerms:  true,
	}
}

func TestRegister(t *testing.T) {
	uc := newUseCase(t)
	c, err := uc.Register(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "52998224725", c.CPF)
	assert.Equal(t, "+5519998765432", c.Phone)
	assert.NotEqual(t, "Abc123!@", c.PasswordHash)
	assert.False(t, c.Verified)
}

func TestRegister_Duplicados(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	_, err := uc.Register(ctx, validRequest())
	require.NoError(t, err)

	sameEmail := validRequest()
	sameEmail.CPF = "111.444.777-35"
	sameEmail.Email = "ANA@example.com"
	_, err = uc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	sameCPF := validRequest()
	sameCPF.Email = "outra@example.com"
	sameCPF.CPF = "52998224725"
	_, err = uc.Register(ctx, sameCPF)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegister_Validacion(t *testing.T) {
	cases := map[string]func(r *dto.RegisterClientRequest){
		"cpf repetido":        func(r *dto.RegisterClientRequest) { r.CPF = "111.111.111-11" },
		"cpf corto":           func(r *dto.RegisterClientRequest) { r.CPF = "123" },
		"password débil":      func(r *dto.RegisterClientRequest) { r.Password = "abc123" },
		"email inválido":      func(r *dto.RegisterClientRequest) { r.Email = "no-es-email" },
		"sin nombre":          func(r *dto.RegisterClientRequest) { r.FullName = "  " },
		"términos sin marcar": func(r *dto.RegisterClientRequest) { r.AcceptTerms = false },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := newUseCase(t).Register(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	_, err := uc.Register(ctx, validRequest())
	require.NoError(t, err)

	c, err := uc.Login(ctx, "ANA@example.com ", " Abc123!@")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", c.FullName)

	_, errPass := uc.Login(ctx, "ana@example.com", "Abc123!#")
	_, errMail := uc.Login(ctx, "nadie@example.com", "Abc123!@")
	require.ErrorIs(t, errPass, domain.ErrInvalidCredentials)
	require.ErrorIs(t, errMail, domain.ErrInvalidCredentials)
	assert.Equal(t, errPass.Error(), errMail.Error())

	_, err = uc.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
