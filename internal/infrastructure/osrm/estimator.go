package osrm

import (
	"context"

	"go.uber.org/zap"

	"github.com/routing-microservice/internal/config"
	"github.com/routing-microservice/internal/domain"
	"github.com/routing-microservice/internal/domain/repository"
	apperrors "github.com/routing-microservice/internal/pkg/errors"
	"github.com/routing-microservice/internal/pkg/utils"
)

const secondsPerHour = 3600.0

// estimator строит приближённую матрицу по прямой (haversine),
// когда OSRM недоступен. Результат всегда помечен Estimated.
type estimator struct {
	speedKmh     float64
	detourFactor float64
	logger       *zap.Logger
}

// NewEstimator создает fallback-провайдер матрицы
func NewEstimator(cfg *config.RoutingConfig, logger *zap.Logger) repository.RoutingRepository {
	return &estimator{
		speedKmh:     cfg.FallbackSpeed,
		detourFactor: cfg.DetourFactor,
		logger:       logger,
	}
}

func (e *estimator) GetMatrix(
	_ context.Context,
	depot domain.Coordinate,
	points []domain.Coordinate,
) (*domain.CostMatrix, error) {
	if len(points) == 0 {
		return nil, apperrors.ErrInvalidRequest.WithMessage("at least one point is required for a matrix")
	}

	nodes := make([]domain.Coordinate, 0, len(points)+1)
	nodes = append(nodes, depot)
	nodes = append(nodes, points...)

	dim := len(nodes)
	distances := make([][]float64, dim)
	durations := make([][]float64, dim)
	for i := range nodes {
		distances[i] = make([]float64, dim)
		durations[i] = make([]float64, dim)
		for j := range nodes {
			if i == j {
				continue
			}
			d := utils.HaversineDistanceMeters(
				nodes[i].Lat, nodes[i].Lon,
				nodes[j].Lat, nodes[j].Lon,
			) * e.detourFactor
			distances[i][j] = d
			durations[i][j] = d / 1000.0 / e.speedKmh * secondsPerHour
		}
	}

	e.logger.Info("Built estimated cost matrix",
		zap.Int("nodes", dim),
		zap.Float64("detour_factor", e.detourFactor))

	return &domain.CostMatrix{
		Distances: distances,
		Durations: durations,
		Estimated: true,
	}, nil
}
