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

type pointRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPointRepository(db *DB) repository.PointRepository {
	return &pointRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *pointRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.CollectionPoint, error) {
	if len(ids) == 0 {
		return []*domain.CollectionPoint{}, nil
	}

	query := `
		SELECT id, organization_id, reported_by, lat, lon,
		       estimated_volume, status, created_at
		FROM collection_points
		WHERE id = ANY($1)
	`

	var points []*domain.CollectionPoint
	if err := r.db.SelectContext(ctx, &points, query, pq.Array(uuidStrings(ids))); err != nil {
		r.logger.Error("Failed to get points by ids", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return points, nil
}

func (r *pointRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, status string) ([]*domain.CollectionPoint, error) {
	query := `
		SELECT id, organization_id, reported_by, lat, lon,
		       estimated_volume, status, created_at
		FROM collection_points
		WHERE organization_id = $1
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`

	var points []*domain.CollectionPoint
	if err := r.db.SelectContext(ctx, &points, query, orgID, status); err != nil {
		r.logger.Error("Failed to list points",
			zap.String("organization_id", orgID.String()),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return points, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
