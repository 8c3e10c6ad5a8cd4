package dto

import (
	"time"

	"github.com/routing-microservice/internal/domain"
)

// OptimizationResponse - результат построения маршрутов
type OptimizationResponse struct {
	ID               string              `json:"id"`
	RequestID        string              `json:"request_id"`
	Status           string              `json:"status"`
	Itineraries      []ItineraryResponse `json:"itineraries"`
	TotalDistanceM   float64             `json:"total_distance_m"`
	EfficiencyScore  float64             `json:"efficiency_score"`
	ExcludedPoints   []string            `json:"excluded_points"`
	UnassignedPoints []string            `json:"unassigned_points"`
	Estimated        bool                `json:"estimated"`
	CreatedAt        time.Time           `json:"created_at"`
}

// ItineraryResponse - маршрут одной машины
type ItineraryResponse struct {
	ID                   string     `json:"id"`
	OrganizationID       string     `json:"organization_id"`
	VehicleID            string     `json:"vehicle_id"`
	PointIDs             []string   `json:"point_ids"`
	TotalDistanceM       float64    `json:"total_distance_m"`
	EstimatedDurationSec float64    `json:"estimated_duration_sec"`
	EstimatedFuelLiters  float64    `json:"estimated_fuel_liters"`
	Estimated            bool       `json:"estimated"`
	Status               string     `json:"status"`
	CreatedAt            time.Time  `json:"created_at"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// ItineraryFromDomain собирает ответ из доменной модели
func ItineraryFromDomain(it *domain.Itinerary) ItineraryResponse {
	pointIDs := make([]string, len(it.PointIDs))
	for i, id := range it.PointIDs {
		pointIDs[i] = id.String()
	}
	return ItineraryResponse{
		ID:                   it.ID.String(),
		OrganizationID:       it.OrganizationID.String(),
		VehicleID:            it.VehicleID.String(),
		PointIDs:             pointIDs,
		TotalDistanceM:       it.TotalDistanceM,
		EstimatedDurationSec: it.EstimatedDurationSec,
		EstimatedFuelLiters:  it.EstimatedFuelLiters,
		Estimated:            it.Estimated,
		Status:               it.Status,
		CreatedAt:            it.CreatedAt,
		StartedAt:            it.StartedAt,
		CompletedAt:          it.CompletedAt,
	}
}

// OptimizationFromDomain собирает ответ из результата и его маршрутов
func OptimizationFromDomain(result *domain.OptimizationResult, itineraries []*domain.Itinerary) OptimizationResponse {
	resp := OptimizationResponse{
		ID:               result.ID.String(),
		RequestID:        result.RequestID.String(),
		Status:           result.Status,
		Itineraries:      make([]ItineraryResponse, 0, len(itineraries)),
		TotalDistanceM:   result.TotalDistanceM,
		EfficiencyScore:  result.EfficiencyScore,
		ExcludedPoints:   make([]string, 0, len(result.ExcludedPointIDs)),
		UnassignedPoints: make([]string, 0, len(result.UnassignedPointIDs)),
		Estimated:        result.Estimated,
		CreatedAt:        result.CreatedAt,
	}
	for _, it := range itineraries {
		resp.Itineraries = append(resp.Itineraries, ItineraryFromDomain(it))
	}
	for _, id := range result.ExcludedPointIDs {
		resp.ExcludedPoints = append(resp.ExcludedPoints, id.String())
	}
	for _, id := range result.UnassignedPointIDs {
		resp.UnassignedPoints = append(resp.UnassignedPoints, id.String())
	}
	return resp
}
