package domain

import (
	"time"

	"github.com/google/uuid"
)

// Статусы обработки запроса на оптимизацию (машина состояний оркестратора)
const (
	OptimizationStatusReceived       = "received"
	OptimizationStatusMatrixFetching = "matrix_fetching"
	OptimizationStatusSolving        = "solving"
	OptimizationStatusCompleted      = "completed"
	OptimizationStatusFailed         = "failed"
)

// OptimizationRequest - запрос на построение маршрутов сбора.
// Неизменяем после создания; каждый запуск обрабатывается независимо
// и порождает новый OptimizationResult.
type OptimizationRequest struct {
	ID                 uuid.UUID   `json:"id" db:"id"`
	OrganizationID     uuid.UUID   `json:"organization_id" db:"organization_id"`
	PointIDs           []uuid.UUID `json:"point_ids" db:"point_ids"`
	VehicleIDs         []uuid.UUID `json:"vehicle_ids" db:"vehicle_ids"`
	MaxTripDurationSec *float64    `json:"max_trip_duration_sec,omitempty" db:"max_trip_duration_sec"`
	Zone               *Zone       `json:"zone,omitempty"`
	AllowPartial       bool        `json:"allow_partial" db:"allow_partial"`
	AllowEstimated     bool        `json:"allow_estimated" db:"allow_estimated"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
}

// OptimizationResult - результат одного запуска оптимизации.
// Связь с запросом 1:1 (request_id уникален), создаётся один раз
// и никогда не изменяется.
type OptimizationResult struct {
	ID                 uuid.UUID   `json:"id" db:"id"`
	RequestID          uuid.UUID   `json:"request_id" db:"request_id"`
	OrganizationID     uuid.UUID   `json:"organization_id" db:"organization_id"`
	ItineraryIDs       []uuid.UUID `json:"itinerary_ids" db:"itinerary_ids"`
	TotalDistanceM     float64     `json:"total_distance_m" db:"total_distance_m"`
	EfficiencyScore    float64     `json:"efficiency_score" db:"efficiency_score"` // 0..1
	ExcludedPointIDs   []uuid.UUID `json:"excluded_point_ids" db:"excluded_point_ids"`     // zone filter
	UnassignedPointIDs []uuid.UUID `json:"unassigned_point_ids" db:"unassigned_point_ids"` // infeasible
	Estimated          bool        `json:"estimated" db:"estimated"`
	Status             string      `json:"status" db:"status"`
	FailureCode        string      `json:"failure_code,omitempty" db:"failure_code"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
}
