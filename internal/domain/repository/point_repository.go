package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/routing-microservice/internal/domain"
)

// PointRepository - доступ на чтение к точкам сбора.
// Оптимизатор никогда не изменяет и не удаляет точки.
type PointRepository interface {
	// GetByIDs возвращает точки по списку идентификаторов
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.CollectionPoint, error)

	// ListByOrganization возвращает точки организации с данным статусом
	ListByOrganization(ctx context.Context, orgID uuid.UUID, status string) ([]*domain.CollectionPoint, error)
}
