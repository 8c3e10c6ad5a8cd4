package dto

import (
	"github.com/google/uuid"

	"github.com/routing-microservice/internal/domain"
)

// OptimizeRequest - запрос на построение маршрутов сбора
type OptimizeRequest struct {
	OrganizationID     string   `json:"organization_id" validate:"required,uuid"`
	PointIDs           []string `json:"point_ids" validate:"required,min=1,dive,uuid"`
	VehicleIDs         []string `json:"vehicle_ids" validate:"required,min=1,dive,uuid"`
	MaxTripDurationSec *float64 `json:"max_trip_duration_sec,omitempty" validate:"omitempty,gt=0"`
	Zone               *Zone    `json:"zone,omitempty" validate:"omitempty"`
	AllowPartial       bool     `json:"allow_partial"`
	AllowEstimated     bool     `json:"allow_estimated"`
}

// Zone - круговая зона фильтрации точек
type Zone struct {
	Lat      float64 `json:"lat" validate:"min=-90,max=90"`
	Lon      float64 `json:"lon" validate:"min=-180,max=180"`
	RadiusKm float64 `json:"radius_km" validate:"required,min=0.1,max=100"`
}

// ToDomain переводит запрос в доменную модель, дедуплицируя точки
// с сохранением порядка первого вхождения
func (r *OptimizeRequest) ToDomain() (*domain.OptimizationRequest, error) {
	orgID, err := uuid.Parse(r.OrganizationID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(r.PointIDs))
	pointIDs := make([]uuid.UUID, 0, len(r.PointIDs))
	for _, raw := range r.PointIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		pointIDs = append(pointIDs, id)
	}

	vehicleIDs := make([]uuid.UUID, 0, len(r.VehicleIDs))
	for _, raw := range r.VehicleIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		vehicleIDs = append(vehicleIDs, id)
	}

	req := &domain.OptimizationRequest{
		ID:                 uuid.New(),
		OrganizationID:     orgID,
		PointIDs:           pointIDs,
		VehicleIDs:         vehicleIDs,
		MaxTripDurationSec: r.MaxTripDurationSec,
		AllowPartial:       r.AllowPartial,
		AllowEstimated:     r.AllowEstimated,
	}
	if r.Zone != nil {
		req.Zone = &domain.Zone{
			Center:   domain.Coordinate{Lat: r.Zone.Lat, Lon: r.Zone.Lon},
			RadiusKm: r.Zone.RadiusKm,
		}
	}
	return req, nil
}

// UpdateItineraryStatusRequest - запрос на смену статуса маршрута
type UpdateItineraryStatusRequest struct {
	Status string `json:"status" validate:"required,itinerary_status"`
}

// ListItinerariesRequest - параметры выборки маршрутов организации
type ListItinerariesRequest struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=200"`
}
