package postgres

import (
	"context"
	"database/sql"
	goerrors "errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/routing-microservice/internal/domain"
	"github.com/routing-microservice/internal/domain/repository"
	"github.com/routing-microservice/internal/pkg/errors"
)

type itineraryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewItineraryRepository(db *DB) repository.ItineraryRepository {
	return &itineraryRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *itineraryRepository) Create(ctx context.Context, itinerary *domain.Itinerary) error {
	if err := insertItinerary(ctx, r.db, itinerary); err != nil {
		r.logger.Error("Failed to create itinerary",
			zap.String("itinerary_id", itinerary.ID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

// insertItinerary принимает execer чтобы работать и вне, и внутри транзакции
func insertItinerary(ctx context.Context, ex sqlx.ExecerContext, itinerary *domain.Itinerary) error {
	query := `
		INSERT INTO itineraries (
			id, organization_id, vehicle_id, point_ids,
			total_distance_m, estimated_duration_sec, estimated_fuel_liters,
			estimated, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := ex.ExecContext(ctx, query,
		itinerary.ID,
		itinerary.OrganizationID,
		itinerary.VehicleID,
		pq.Array(uuidStrings(itinerary.PointIDs)),
		itinerary.TotalDistanceM,
		itinerary.EstimatedDurationSec,
		itinerary.EstimatedFuelLiters,
		itinerary.Estimated,
		itinerary.Status,
		itinerary.CreatedAt,
	)
	return err
}

func (r *itineraryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	query := `
		SELECT id, organization_id, vehicle_id, point_ids,
		       total_distance_m, estimated_duration_sec, estimated_fuel_liters,
		       estimated, status, created_at, started_at, completed_at
		FROM itineraries
		WHERE id = $1
	`

	itinerary, err := scanItinerary(r.db.QueryRowxContext(ctx, query, id))
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrItineraryNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get itinerary",
			zap.String("itinerary_id", id.String()),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return itinerary, nil
}

func (r *itineraryRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, limit int) ([]*domain.Itinerary, error) {
	query := `
		SELECT id, organization_id, vehicle_id, point_ids,
		       total_distance_m, estimated_duration_sec, estimated_fuel_liters,
		       estimated, status, created_at, started_at, completed_at
		FROM itineraries
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryxContext(ctx, query, orgID, limit)
	if err != nil {
		r.logger.Error("Failed to list itineraries",
			zap.String("organization_id", orgID.String()),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var itineraries []*domain.Itinerary
	for rows.Next() {
		itinerary, err := scanItinerary(rows)
		if err != nil {
			r.logger.Error("Failed to scan itinerary", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		itineraries = append(itineraries, itinerary)
	}
	return itineraries, nil
}

func (r *itineraryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE itineraries
		SET status = $2,
		    started_at = CASE WHEN $2 = 'in_progress' AND started_at IS NULL
		                      THEN now() ELSE started_at END,
		    completed_at = CASE WHEN $2 IN ('completed', 'cancelled')
		                        THEN now() ELSE completed_at END
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		r.logger.Error("Failed to update itinerary status",
			zap.String("itinerary_id", id.String()),
			zap.String("status", status),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseError
	}
	if affected == 0 {
		return errors.ErrItineraryNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanItinerary разворачивает uuid[] колонку point_ids вручную
func scanItinerary(row rowScanner) (*domain.Itinerary, error) {
	var it domain.Itinerary
	var pointIDs pq.StringArray

	err := row.Scan(
		&it.ID, &it.OrganizationID, &it.VehicleID, &pointIDs,
		&it.TotalDistanceM, &it.EstimatedDurationSec, &it.EstimatedFuelLiters,
		&it.Estimated, &it.Status, &it.CreatedAt, &it.StartedAt, &it.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	it.PointIDs, err = parseUUIDs(pointIDs)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
