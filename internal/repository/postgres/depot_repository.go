package postgres

import (
	"context"
	"database/sql"
	goerrors "errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/routing-microservice/internal/domain"
	"github.com/routing-microservice/internal/domain/repository"
	"github.com/routing-microservice/internal/pkg/errors"
)

type depotRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDepotRepository(db *DB) repository.DepotRepository {
	return &depotRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *depotRepository) GetByOrganization(ctx context.Context, orgID uuid.UUID) (*domain.Depot, error) {
	query := `
		SELECT id, organization_id, name, lat, lon, created_at
		FROM depots
		WHERE organization_id = $1
		ORDER BY created_at
		LIMIT 1
	`

	var depot domain.Depot
	err := r.db.GetContext(ctx, &depot, query, orgID)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrDepotNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get depot",
			zap.String("organization_id", orgID.String()),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &depot, nil
}
