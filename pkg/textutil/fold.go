// Package textutil comparaciones de texto sin distinguir mayúsculas ni formas Unicode.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold normaliza s para comparar: recorta espacios, compone a NFC y aplica case folding Unicode.
// "  SUÍNA " y "suína" producen el mismo resultado.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// SameLower compara a y b pasados a minúsculas, sin case folding ni normalización.
// Es la misma regla que lower() en los índices únicos del motor relacional, así los dos
// backends coinciden en qué es un duplicado ("Straße" y "STRASSE" no lo son).
func SameLower(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}

// ContainsFold indica si substr aparece en s sin distinguir mayúsculas.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
