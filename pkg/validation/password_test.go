package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meatpack/estoque/pkg/validation"
)

func TestIsStrongPassword(t *testing.T) {
	cases := []struct {
		pw   string
		want bool
	}{
		{"Abc123!@", true},
		{"Picanha2024$", true},
		{"abc123", false},     // corta, sin mayúscula ni símbolo
		{"abcdefg1!", false},  // sin mayúscula
		{"ABCDEFG1!", false},  // sin minúscula
		{"Abcdefgh!", false},  // sin dígito
		{"Abcdefg12", false},  // sin símbolo
		{"Abc123!#x", false},  // '#' fuera del conjunto
		{"Abc 123!@", false},  // espacio
	}
	for _, c := range cases {
		assert.Equal(t, c.want, validation.IsStrongPassword(c.pw), c.pw)
	}
}

func TestNew_ReglasPropias(t *testing.T) {
	type signup struct {
		CPF      string `validate:"required,cpf"`
		Password string `validate:"required,strongpassword"`
	}
	v := validation.New()
	assert.NoError(t, v.Struct(signup{CPF: "529.982.247-25", Password: "Abc123!@"}))
	assert.Error(t, v.Struct(signup{CPF: "111.111.111-11", Password: "Abc123!@"}))
	assert.Error(t, v.Struct(signup{CPF: "529.982.247-25", Password: "abc123"}))
}
