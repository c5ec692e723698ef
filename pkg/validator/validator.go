package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// lon/lat como reglas propias para poder usarlas en cualquier request
	// que transporte coordenadas (locations, areas).
	validate.RegisterValidation("lat", func(fl validator.FieldLevel) bool {
		lat := fl.Field().Float()
		return lat >= -90 && lat <= 90
	})
	validate.RegisterValidation("lon", func(fl validator.FieldLevel) bool {
		lon := fl.Field().Float()
		return lon >= -180 && lon <= 180
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
