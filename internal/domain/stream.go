package domain

import "github.com/google/uuid"

// Stream names (должны совпадать с backend платформы)
const (
	StreamOptimizationRequested = "stream:optimization:requested"
	StreamOptimizationDone      = "stream:optimization:done"
)

// OptimizationRequestedEvent - входящее событие на расчёт маршрутов
type OptimizationRequestedEvent struct {
	RequestID          uuid.UUID   `json:"request_id"`
	OrganizationID     uuid.UUID   `json:"organization_id"`
	PointIDs           []uuid.UUID `json:"point_ids"`
	VehicleIDs         []uuid.UUID `json:"vehicle_ids"`
	MaxTripDurationSec *float64    `json:"max_trip_duration_sec,omitempty"`
	Zone               *Zone       `json:"zone,omitempty"`
	AllowPartial       bool        `json:"allow_partial,omitempty"`
	AllowEstimated     bool        `json:"allow_estimated,omitempty"`
}

// OptimizationDoneEvent - результат расчёта для backend платформы
type OptimizationDoneEvent struct {
	RequestID          uuid.UUID   `json:"request_id"`
	ResultID           *uuid.UUID  `json:"result_id,omitempty"`
	ItineraryIDs       []uuid.UUID `json:"itinerary_ids,omitempty"`
	EfficiencyScore    float64     `json:"efficiency_score,omitempty"`
	ExcludedPointIDs   []uuid.UUID `json:"excluded_point_ids,omitempty"`
	UnassignedPointIDs []uuid.UUID `json:"unassigned_point_ids,omitempty"`
	Estimated          bool        `json:"estimated,omitempty"`
	Error              string      `json:"error,omitempty"`
	ErrorCode          string      `json:"error_code,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
