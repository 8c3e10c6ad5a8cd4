package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleType - закрытый набор типов транспорта организации
type VehicleType string

const (
	VehicleTypeTruck     VehicleType = "truck"
	VehicleTypeVan       VehicleType = "van"
	VehicleTypeCar       VehicleType = "car"
	VehicleTypeCargoBike VehicleType = "cargo_bike"
)

// vehicleTypeDefaults - средняя скорость (км/ч) и расход топлива (л/100км)
// по типам, если для конкретной машины они не заданы
var vehicleTypeDefaults = map[VehicleType]struct {
	SpeedKmh        float64
	FuelConsumption float64
}{
	VehicleTypeTruck:     {SpeedKmh: 40, FuelConsumption: 28},
	VehicleTypeVan:       {SpeedKmh: 45, FuelConsumption: 12},
	VehicleTypeCar:       {SpeedKmh: 50, FuelConsumption: 7},
	VehicleTypeCargoBike: {SpeedKmh: 15, FuelConsumption: 0},
}

// IsValidVehicleType проверяет валидность типа транспорта
func IsValidVehicleType(t string) bool {
	_, ok := vehicleTypeDefaults[VehicleType(t)]
	return ok
}

// Vehicle - транспортное средство организации. Для решателя read-only.
type Vehicle struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	OrganizationID  uuid.UUID   `json:"organization_id" db:"organization_id"`
	Name            string      `json:"name" db:"name"`
	Type            VehicleType `json:"type" db:"type"`
	MaxCapacity     float64     `json:"max_capacity" db:"max_capacity"`         // liters, > 0
	AvgSpeedKmh     float64     `json:"avg_speed_kmh" db:"avg_speed_kmh"`       // > 0
	FuelConsumption float64     `json:"fuel_consumption" db:"fuel_consumption"` // L/100km, >= 0
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

// EffectiveSpeedKmh возвращает среднюю скорость машины,
// подставляя дефолт типа если скорость не задана
func (v *Vehicle) EffectiveSpeedKmh() float64 {
	if v.AvgSpeedKmh > 0 {
		return v.AvgSpeedKmh
	}
	if d, ok := vehicleTypeDefaults[v.Type]; ok {
		return d.SpeedKmh
	}
	return 40
}

// EffectiveFuelConsumption возвращает расход топлива л/100км
func (v *Vehicle) EffectiveFuelConsumption() float64 {
	if v.FuelConsumption > 0 {
		return v.FuelConsumption
	}
	if d, ok := vehicleTypeDefaults[v.Type]; ok {
		return d.FuelConsumption
	}
	return 0
}

// FuelForDistance оценивает расход топлива в литрах для дистанции в метрах
func (v *Vehicle) FuelForDistance(distanceM float64) float64 {
	return distanceM / 1000.0 * v.EffectiveFuelConsumption() / 100.0
}
