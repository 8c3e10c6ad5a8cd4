package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/routing-microservice/internal/domain"
	"github.com/routing-microservice/internal/domain/repository"
	"github.com/routing-microservice/internal/pkg/errors"
)

type vehicleRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewVehicleRepository(db *DB) repository.VehicleRepository {
	return &vehicleRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *vehicleRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Vehicle, error) {
	if len(ids) == 0 {
		return []*domain.Vehicle{}, nil
	}

	query := `
		SELECT id, organization_id, name, type, max_capacity,
		       avg_speed_kmh, fuel_consumption, created_at
		FROM vehicles
		WHERE id = ANY($1)
	`

	var vehicles []*domain.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, query, pq.Array(uuidStrings(ids))); err != nil {
		r.logger.Error("Failed to get vehicles by ids", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return vehicles, nil
}

func (r *vehicleRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, organization_id, name, type, max_capacity,
		       avg_speed_kmh, fuel_consumption, created_at
		FROM vehicles
		WHERE organization_id = $1
		ORDER BY name
	`

	var vehicles []*domain.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, query, orgID); err != nil {
		r.logger.Error("Failed to list vehicles",
			zap.String("organization_id", orgID.String()),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return vehicles, nil
}
