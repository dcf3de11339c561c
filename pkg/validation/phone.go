package validation

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// DefaultRegion región usada para interpretar teléfonos sin prefijo internacional.
const DefaultRegion = "BR"

// NormalizePhone devuelve el teléfono en E.164 cuando es un número válido para region;
// si no, lo devuelve recortado tal cual.
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	p, err := libphonenumber.Parse(phone, region)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return phone
	}
	return libphonenumber.Format(p, libphonenumber.E164)
}
