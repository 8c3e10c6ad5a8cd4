package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/routing-microservice/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// vehicle_type - один из поддерживаемых типов транспорта
	_ = validate.RegisterValidation("vehicle_type", func(fl validator.FieldLevel) bool {
		return domain.IsValidVehicleType(fl.Field().String())
	})

	// itinerary_status - валидный статус маршрута
	_ = validate.RegisterValidation("itinerary_status", func(fl validator.FieldLevel) bool {
		return domain.IsValidItineraryStatus(fl.Field().String())
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
