package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/routing-microservice/internal/domain"
)

// ItineraryRepository - хранение маршрутов.
// Запись ограничена созданием и переходами статуса: порядок точек
// после создания не меняется.
type ItineraryRepository interface {
	// Create сохраняет новый маршрут
	Create(ctx context.Context, itinerary *domain.Itinerary) error

	// GetByID возвращает маршрут по идентификатору
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error)

	// ListByOrganization возвращает маршруты организации
	ListByOrganization(ctx context.Context, orgID uuid.UUID, limit int) ([]*domain.Itinerary, error)

	// UpdateStatus выполняет переход статуса с отметкой времени
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
