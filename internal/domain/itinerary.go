package domain

import (
	"time"

	"github.com/google/uuid"
)

// Статусы жизненного цикла маршрута
const (
	ItineraryStatusPending    = "pending"
	ItineraryStatusInProgress = "in_progress"
	ItineraryStatusCompleted  = "completed"
	ItineraryStatusCancelled  = "cancelled"
)

// itineraryTransitions - допустимые переходы статусов.
// После создания маршрут меняется только через переходы статуса,
// порядок точек никогда не переупорядочивается.
var itineraryTransitions = map[string][]string{
	ItineraryStatusPending:    {ItineraryStatusInProgress, ItineraryStatusCancelled},
	ItineraryStatusInProgress: {ItineraryStatusCompleted, ItineraryStatusCancelled},
	ItineraryStatusCompleted:  {},
	ItineraryStatusCancelled:  {},
}

// Itinerary - маршрут одной машины: упорядоченная последовательность точек
// сбора (база не входит в список, но подразумевается началом и концом).
type Itinerary struct {
	ID                   uuid.UUID   `json:"id" db:"id"`
	OrganizationID       uuid.UUID   `json:"organization_id" db:"organization_id"`
	VehicleID            uuid.UUID   `json:"vehicle_id" db:"vehicle_id"`
	PointIDs             []uuid.UUID `json:"point_ids" db:"point_ids"` // visiting order
	TotalDistanceM       float64     `json:"total_distance_m" db:"total_distance_m"`
	EstimatedDurationSec float64     `json:"estimated_duration_sec" db:"estimated_duration_sec"`
	EstimatedFuelLiters  float64     `json:"estimated_fuel_liters" db:"estimated_fuel_liters"`
	Estimated            bool        `json:"estimated" db:"estimated"` // haversine fallback, not routed
	Status               string      `json:"status" db:"status"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
	StartedAt            *time.Time  `json:"started_at,omitempty" db:"started_at"`
	CompletedAt          *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
}

// CanTransitionTo проверяет допустимость перехода статуса
func (i *Itinerary) CanTransitionTo(status string) bool {
	for _, next := range itineraryTransitions[i.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// IsValidItineraryStatus проверяет валидность статуса маршрута
func IsValidItineraryStatus(s string) bool {
	_, ok := itineraryTransitions[s]
	return ok
}
