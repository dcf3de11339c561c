package validation

import (
	"fmt"
	"unicode"
)

// ValidateCPF valida un CPF (con o sin puntos/guiones) según el algoritmo módulo 11 de la Receita Federal:
// 11 dígitos, no todos iguales, y dos dígitos verificadores con pesos 10..2 y 11..2.
// cpf puede ser "529.982.247-25" o "52998224725".
func ValidateCPF(cpf string) error {
	digits := extractDigits(cpf)
	if len(digits) != 11 {
		return fmt.Errorf("cpf: debe tener 11 dígitos, se encontraron %d", len(digits))
	}
	if allEqual(digits) {
		return fmt.Errorf("cpf: secuencia de dígitos repetidos")
	}
	if d := checkDigit(digits[:9]); digits[9] != d {
		return fmt.Errorf("cpf: primer dígito verificador inválido: esperado %c, recibido %c", d, digits[9])
	}
	if d := checkDigit(digits[:10]); digits[10] != d {
		return fmt.Errorf("cpf: segundo dígito verificador inválido: esperado %c, recibido %c", d, digits[10])
	}
	return nil
}

// NormalizeCPF deja solo los dígitos del CPF ("529.982.247-25" -> "52998224725").
func NormalizeCPF(cpf string) string {
	return string(extractDigits(cpf))
}

// IsCPF atajo booleano de ValidateCPF.
func IsCPF(cpf string) bool {
	return ValidateCPF(cpf) == nil
}

// checkDigit calcula el dígito verificador para base; los pesos van de len(base)+1 hasta 2.
func checkDigit(base []byte) byte {
	var sum int
	weight := len(base) + 1
	for i, d := range base {
		sum += int(d-'0') * (weight - i)
	}
	r := 11 - sum%11
	if r == 10 || r == 11 {
		r = 0
	}
	return byte('0' + r)
}

func allEqual(digits []byte) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
