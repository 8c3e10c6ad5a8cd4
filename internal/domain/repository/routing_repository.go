package repository

import (
	"context"

	"github.com/routing-microservice/internal/domain"
)

// RoutingRepository определяет методы для работы с внешним routing-движком
type RoutingRepository interface {
	// GetMatrix возвращает матрицу расстояний (метры) и времени (секунды)
	// между базой и точками сбора; узел 0 результата - база.
	// Компонент не изменяет доменные сущности.
	GetMatrix(
		ctx context.Context,
		depot domain.Coordinate,
		points []domain.Coordinate,
	) (*domain.CostMatrix, error)
}
