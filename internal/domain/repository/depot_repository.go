package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/routing-microservice/internal/domain"
)

// DepotRepository - доступ на чтение к базам организаций.
// Одна оптимизация всегда работает с одной базой (узел 0 матрицы).
type DepotRepository interface {
	// GetByOrganization возвращает базу организации
	GetByOrganization(ctx context.Context, orgID uuid.UUID) (*domain.Depot, error)
}
