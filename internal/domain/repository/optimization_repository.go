package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/routing-microservice/internal/domain"
)

// OptimizationRepository - хранение запросов и результатов оптимизации.
// Результат создаётся один раз (request_id уникален) и не изменяется.
type OptimizationRepository interface {
	// SaveRequest сохраняет принятый запрос
	SaveRequest(ctx context.Context, req *domain.OptimizationRequest) error

	// SaveResult сохраняет результат расчёта
	SaveResult(ctx context.Context, result *domain.OptimizationResult) error

	// SaveResultWithItineraries атомарно сохраняет результат вместе
	// с его маршрутами: либо записывается всё, либо ничего
	SaveResultWithItineraries(ctx context.Context, result *domain.OptimizationResult, itineraries []*domain.Itinerary) error

	// GetResultByID возвращает результат по идентификатору
	GetResultByID(ctx context.Context, id uuid.UUID) (*domain.OptimizationResult, error)

	// GetResultByRequestID возвращает результат по идентификатору запроса
	GetResultByRequestID(ctx context.Context, requestID uuid.UUID) (*domain.OptimizationResult, error)
}
