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

type optimizationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewOptimizationRepository(db *DB) repository.OptimizationRepository {
	return &optimizationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *optimizationRepository) SaveRequest(ctx context.Context, req *domain.OptimizationRequest) error {
	query := `
		INSERT INTO optimization_requests (
			id, organization_id, point_ids, vehicle_ids,
			max_trip_duration_sec, zone_lat, zone_lon, zone_radius_km,
			allow_partial, allow_estimated, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var zoneLat, zoneLon, zoneRadius *float64
	if req.Zone != nil {
		zoneLat = &req.Zone.Center.Lat
		zoneLon = &req.Zone.Center.Lon
		zoneRadius = &req.Zone.RadiusKm
	}

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.OrganizationID,
		pq.Array(uuidStrings(req.PointIDs)),
		pq.Array(uuidStrings(req.VehicleIDs)),
		req.MaxTripDurationSec,
		zoneLat, zoneLon, zoneRadius,
		req.AllowPartial,
		req.AllowEstimated,
		req.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save optimization request",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *optimizationRepository) SaveResult(ctx context.Context, result *domain.OptimizationResult) error {
	if err := insertResult(ctx, r.db, result); err != nil {
		r.logger.Error("Failed to save optimization result",
			zap.String("result_id", result.ID.String()),
			zap.String("request_id", result.RequestID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

// SaveResultWithItineraries пишет маршруты и результат одной транзакцией:
// частично сохранённых маршрутов без результата не остаётся
func (r *optimizationRepository) SaveResultWithItineraries(
	ctx context.Context,
	result *domain.OptimizationResult,
	itineraries []*domain.Itinerary,
) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction",
			zap.String("result_id", result.ID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	for _, itinerary := range itineraries {
		if err := insertItinerary(ctx, tx, itinerary); err != nil {
			r.logger.Error("Failed to create itinerary in transaction",
				zap.String("itinerary_id", itinerary.ID.String()),
				zap.Error(err))
			return errors.ErrDatabaseError
		}
	}
	if err := insertResult(ctx, tx, result); err != nil {
		r.logger.Error("Failed to save optimization result in transaction",
			zap.String("result_id", result.ID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit optimization result",
			zap.String("result_id", result.ID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func insertResult(ctx context.Context, ex sqlx.ExecerContext, result *domain.OptimizationResult) error {
	query := `
		INSERT INTO optimization_results (
			id, request_id, organization_id, itinerary_ids,
			total_distance_m, efficiency_score,
			excluded_point_ids, unassigned_point_ids,
			estimated, status, failure_code, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := ex.ExecContext(ctx, query,
		result.ID,
		result.RequestID,
		result.OrganizationID,
		pq.Array(uuidStrings(result.ItineraryIDs)),
		result.TotalDistanceM,
		result.EfficiencyScore,
		pq.Array(uuidStrings(result.ExcludedPointIDs)),
		pq.Array(uuidStrings(result.UnassignedPointIDs)),
		result.Estimated,
		result.Status,
		result.FailureCode,
		result.CreatedAt,
	)
	return err
}

func (r *optimizationRepository) GetResultByID(ctx context.Context, id uuid.UUID) (*domain.OptimizationResult, error) {
	return r.getResult(ctx, "id = $1", id)
}

func (r *optimizationRepository) GetResultByRequestID(ctx context.Context, requestID uuid.UUID) (*domain.OptimizationResult, error) {
	return r.getResult(ctx, "request_id = $1", requestID)
}

func (r *optimizationRepository) getResult(ctx context.Context, where string, arg interface{}) (*domain.OptimizationResult, error) {
	query := `
		SELECT id, request_id, organization_id, itinerary_ids,
		       total_distance_m, efficiency_score,
		       excluded_point_ids, unassigned_point_ids,
		       estimated, status, failure_code, created_at
		FROM optimization_results
		WHERE ` + where

	var result domain.OptimizationResult
	var itineraryIDs, excludedIDs, unassignedIDs pq.StringArray

	err := r.db.QueryRowxContext(ctx, query, arg).Scan(
		&result.ID, &result.RequestID, &result.OrganizationID, &itineraryIDs,
		&result.TotalDistanceM, &result.EfficiencyScore,
		&excludedIDs, &unassignedIDs,
		&result.Estimated, &result.Status, &result.FailureCode, &result.CreatedAt,
	)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrOptimizationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get optimization result", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if result.ItineraryIDs, err = parseUUIDs(itineraryIDs); err != nil {
		return nil, errors.ErrDatabaseError
	}
	if result.ExcludedPointIDs, err = parseUUIDs(excludedIDs); err != nil {
		return nil, errors.ErrDatabaseError
	}
	if result.UnassignedPointIDs, err = parseUUIDs(unassignedIDs); err != nil {
		return nil, errors.ErrDatabaseError
	}
	return &result, nil
}
