package validation

import "strings"

// PasswordSymbols símbolos aceptados en contraseñas.
const PasswordSymbols = "@$!%*?&"

// PasswordMinLength longitud mínima de la contraseña.
const PasswordMinLength = 8

// IsStrongPassword exige al menos PasswordMinLength caracteres del conjunto [A-Za-z0-9@$!%*?&]
// con una minúscula, una mayúscula, un dígito y un símbolo de PasswordSymbols.
func IsStrongPassword(pw string) bool {
	if len(pw) < PasswordMinLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}
