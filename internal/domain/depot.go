package domain

import (
	"time"

	"github.com/google/uuid"
)

// Depot - база организации. Неявная начальная и конечная точка каждого
// маршрута: в матрице расстояний всегда узел с индексом 0.
type Depot struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Lat            float64   `json:"lat" db:"lat"`
	Lon            float64   `json:"lon" db:"lon"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Coordinate возвращает координату базы
func (d *Depot) Coordinate() Coordinate {
	return Coordinate{Lat: d.Lat, Lon: d.Lon}
}
