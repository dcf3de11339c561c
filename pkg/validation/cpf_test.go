package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meatpack/estoque/pkg/validation"
)

func TestValidateCPF_Validos(t *testing.T) {
	for _, cpf := range []string{"529.982.247-25", "52998224725", " 529 982 247 25 "} {
		require.NoError(t, validation.ValidateCPF(cpf), cpf)
	}
}

func TestValidateCPF_Invalidos(t *testing.T) {
	cases := map[string]string{
		"repetidos con máscara": "111.111.111-11",
		"ceros":                 "00000000000",
		"nueves":                "99999999999",
		"primer dígito":         "529.982.247-35",
		"segundo dígito":        "529.982.247-26",
		"corto":                 "5299822472",
		"largo":                 "529982247250",
		"vacío":                 "",
	}
	for name, cpf := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, validation.ValidateCPF(cpf))
			assert.False(t, validation.IsCPF(cpf))
		})
	}
}

func TestNormalizeCPF(t *testing.T) {
	assert.Equal(t, "52998224725", validation.NormalizeCPF(" 529.982.247-25 "))
}
