package domain

import (
	"time"

	"github.com/google/uuid"
)

// Статусы точки сбора отходов
const (
	PointStatusReported = "reported"
	PointStatusCleaned  = "cleaned"
)

// CollectionPoint - точка сбора отходов, заявленная пользователем.
// Для оптимизатора точка неизменяема на время одного расчёта маршрута.
type CollectionPoint struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OrganizationID  uuid.UUID `json:"organization_id" db:"organization_id"`
	ReportedBy      uuid.UUID `json:"reported_by" db:"reported_by"`
	Lat             float64   `json:"lat" db:"lat"`
	Lon             float64   `json:"lon" db:"lon"`
	EstimatedVolume *float64  `json:"estimated_volume,omitempty" db:"estimated_volume"` // liters
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Coordinate возвращает координату точки
func (p *CollectionPoint) Coordinate() Coordinate {
	return Coordinate{Lat: p.Lat, Lon: p.Lon}
}

// Demand возвращает объём точки в литрах. Если объём не указан,
// используется defaultDemand (не ноль, чтобы не маскировать переполнение).
func (p *CollectionPoint) Demand(defaultDemand float64) float64 {
	if p.EstimatedVolume == nil || *p.EstimatedVolume <= 0 {
		return defaultDemand
	}
	return *p.EstimatedVolume
}

// IsValidPointStatus проверяет валидность статуса точки
func IsValidPointStatus(s string) bool {
	return s == PointStatusReported || s == PointStatusCleaned
}
