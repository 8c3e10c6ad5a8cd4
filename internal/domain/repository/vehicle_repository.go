package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/routing-microservice/internal/domain"
)

// VehicleRepository - доступ на чтение к транспорту организации
type VehicleRepository interface {
	// GetByIDs возвращает машины по списку идентификаторов
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Vehicle, error)

	// ListByOrganization возвращает весь транспорт организации
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Vehicle, error)
}
