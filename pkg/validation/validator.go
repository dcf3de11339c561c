package validation

import (
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New construye un validador de structs con las reglas propias registradas:
//
//	cpf            CPF con dígitos verificadores válidos
//	strongpassword contraseña según IsStrongPassword
//	maxplaces=N    decimal.Decimal con a lo sumo N decimales
//
// Los campos decimal.Decimal se validan como float64, así gt=0 / gte=0 funcionan sobre cantidades.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return IsCPF(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("maxplaces", maxPlaces)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v
}

// maxPlaces lee el decimal original del struct; fl.Field() ya llega convertido a float64.
func maxPlaces(fl validator.FieldLevel) bool {
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		return false
	}
	if parent := reflect.Indirect(fl.Parent()); parent.Kind() == reflect.Struct {
		if f := parent.FieldByName(fl.StructFieldName()); f.IsValid() {
			if d, ok := f.Interface().(decimal.Decimal); ok {
				return HasMaxPlaces(d, int32(places))
			}
		}
	}
	if fl.Field().Kind() == reflect.Float64 {
		return HasMaxPlaces(decimal.NewFromFloat(fl.Field().Float()), int32(places))
	}
	return false
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
