package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/routing-microservice/internal/domain"
	"github.com/routing-microservice/internal/domain/repository"
	apperrors "github.com/routing-microservice/internal/pkg/errors"
	"github.com/routing-microservice/internal/pkg/utils"
	"github.com/routing-microservice/internal/solver"
)

// OptimizerOptions - параметры оркестратора
type OptimizerOptions struct {
	DefaultPointDemand float64
	StopServiceTime    time.Duration
	RequestTimeout     time.Duration
	TwoOptMaxPasses    int
	ResultCacheTTL     time.Duration
}

// OptimizationUseCase - оркестратор расчёта маршрутов: от запроса
// через матрицу и решатель к сохранённому результату
type OptimizationUseCase struct {
	pointRepo        repository.PointRepository
	vehicleRepo      repository.VehicleRepository
	depotRepo        repository.DepotRepository
	itineraryRepo    repository.ItineraryRepository
	optimizationRepo repository.OptimizationRepository
	routingRepo      repository.RoutingRepository
	fallbackRouting  repository.RoutingRepository
	cacheRepo        repository.CacheRepository
	logger           *zap.Logger
	opts             OptimizerOptions
}

// NewOptimizationUseCase создает новый OptimizationUseCase.
// fallbackRouting может быть nil - тогда деградация в оценку отключена.
func NewOptimizationUseCase(
	pointRepo repository.PointRepository,
	vehicleRepo repository.VehicleRepository,
	depotRepo repository.DepotRepository,
	itineraryRepo repository.ItineraryRepository,
	optimizationRepo repository.OptimizationRepository,
	routingRepo repository.RoutingRepository,
	fallbackRouting repository.RoutingRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	opts OptimizerOptions,
) *OptimizationUseCase {
	return &OptimizationUseCase{
		pointRepo:        pointRepo,
		vehicleRepo:      vehicleRepo,
		depotRepo:        depotRepo,
		itineraryRepo:    itineraryRepo,
		optimizationRepo: optimizationRepo,
		routingRepo:      routingRepo,
		fallbackRouting:  fallbackRouting,
		cacheRepo:        cacheRepo,
		logger:           logger,
		opts:             opts,
	}
}

// Optimize выполняет полный цикл: валидация, загрузка сущностей,
// зональный фильтр, матрица, решатель, материализация и сохранение.
// При таймауте запроса ничего не сохраняется.
func (uc *OptimizationUseCase) Optimize(
	ctx context.Context,
	req *domain.OptimizationRequest,
) (*domain.OptimizationResult, []*domain.Itinerary, error) {
	if uc.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.RequestTimeout)
		defer cancel()
	}

	uc.logger.Info("Optimization request received",
		zap.String("request_id", req.ID.String()),
		zap.String("organization_id", req.OrganizationID.String()),
		zap.Int("points", len(req.PointIDs)),
		zap.Int("vehicles", len(req.VehicleIDs)))

	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	points, vehicles, depot, err := uc.loadEntities(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	candidates, excluded := uc.filterPoints(points, req.Zone)
	if len(candidates) == 0 {
		uc.logger.Info("No routable points after filtering",
			zap.String("request_id", req.ID.String()),
			zap.Int("excluded", len(excluded)))
		return uc.persistResult(ctx, req, &domain.OptimizationResult{
			ID:               uuid.New(),
			RequestID:        req.ID,
			OrganizationID:   req.OrganizationID,
			ExcludedPointIDs: excluded,
			Status:           domain.OptimizationStatusCompleted,
			CreatedAt:        time.Now().UTC(),
		}, nil)
	}

	uc.logger.Debug("Fetching cost matrix",
		zap.String("request_id", req.ID.String()),
		zap.String("status", domain.OptimizationStatusMatrixFetching),
		zap.Int("candidates", len(candidates)))

	matrix, err := uc.fetchMatrix(ctx, req, depot, candidates)
	if err != nil {
		if timeoutErr := uc.checkTimeout(ctx); timeoutErr != nil {
			return nil, nil, timeoutErr
		}
		uc.persistFailure(ctx, req, excluded, nil, err)
		return nil, nil, err
	}

	uc.logger.Debug("Solving",
		zap.String("request_id", req.ID.String()),
		zap.String("status", domain.OptimizationStatusSolving),
		zap.Bool("estimated", matrix.Estimated))

	problem := uc.buildProblem(matrix, candidates, vehicles, req)
	sol, err := solver.Solve(problem)
	if err != nil {
		uc.logger.Error("Solver rejected problem",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
		appErr := apperrors.ErrInternalServer.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
		uc.persistFailure(ctx, req, excluded, nil, appErr)
		return nil, nil, appErr
	}

	if timeoutErr := uc.checkTimeout(ctx); timeoutErr != nil {
		return nil, nil, timeoutErr
	}

	unassigned := make([]uuid.UUID, 0, len(sol.Unassigned))
	for _, idx := range sol.Unassigned {
		unassigned = append(unassigned, candidates[idx].ID)
	}

	if len(unassigned) > 0 && !req.AllowPartial {
		uc.logger.Warn("Optimization infeasible",
			zap.String("request_id", req.ID.String()),
			zap.Int("unassigned", len(unassigned)))
		appErr := apperrors.ErrInfeasible.WithDetails(map[string]interface{}{
			"unassigned_point_ids": uuidStrings(unassigned),
		})
		uc.persistFailure(ctx, req, excluded, unassigned, appErr)
		return nil, nil, appErr
	}

	itineraries := uc.materializeItineraries(req, candidates, vehicles, sol, matrix.Estimated)

	result := &domain.OptimizationResult{
		ID:                 uuid.New(),
		RequestID:          req.ID,
		OrganizationID:     req.OrganizationID,
		ItineraryIDs:       make([]uuid.UUID, 0, len(itineraries)),
		TotalDistanceM:     sol.TotalDistanceM,
		EfficiencyScore:    efficiencyScore(problem.Matrix, sol),
		ExcludedPointIDs:   excluded,
		UnassignedPointIDs: unassigned,
		Estimated:          matrix.Estimated,
		Status:             domain.OptimizationStatusCompleted,
		CreatedAt:          time.Now().UTC(),
	}
	for _, it := range itineraries {
		result.ItineraryIDs = append(result.ItineraryIDs, it.ID)
	}

	return uc.persistResult(ctx, req, result, itineraries)
}

// GetResult возвращает результат с его маршрутами, сначала из кэша
func (uc *OptimizationUseCase) GetResult(
	ctx context.Context,
	id uuid.UUID,
) (*domain.OptimizationResult, []*domain.Itinerary, error) {
	result := uc.resultFromCache(ctx, id)
	if result == nil {
		var err error
		result, err = uc.optimizationRepo.GetResultByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		uc.cacheResult(ctx, result)
	}

	itineraries, err := uc.loadItineraries(ctx, result.ItineraryIDs)
	if err != nil {
		return nil, nil, err
	}
	return result, itineraries, nil
}

// GetResultByRequestID возвращает результат по идентификатору запроса
func (uc *OptimizationUseCase) GetResultByRequestID(
	ctx context.Context,
	requestID uuid.UUID,
) (*domain.OptimizationResult, []*domain.Itinerary, error) {
	result, err := uc.optimizationRepo.GetResultByRequestID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	itineraries, err := uc.loadItineraries(ctx, result.ItineraryIDs)
	if err != nil {
		return nil, nil, err
	}
	return result, itineraries, nil
}

func (uc *OptimizationUseCase) loadEntities(
	ctx context.Context,
	req *domain.OptimizationRequest,
) ([]*domain.CollectionPoint, []*domain.Vehicle, *domain.Depot, error) {
	if len(req.PointIDs) == 0 || len(req.VehicleIDs) == 0 {
		return nil, nil, nil, apperrors.ErrInvalidRequest.WithMessage("point_ids and vehicle_ids must be non-empty")
	}
	if req.Zone != nil && (!req.Zone.IsValid() || !utils.ValidateRadius(req.Zone.RadiusKm)) {
		return nil, nil, nil, apperrors.ErrInvalidRequest.WithMessage("zone center or radius is invalid")
	}

	points, err := uc.pointRepo.GetByIDs(ctx, req.PointIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	if missing := missingIDs(req.PointIDs, pointIDSet(points)); len(missing) > 0 {
		return nil, nil, nil, apperrors.ErrPointNotFound.WithDetails(map[string]interface{}{
			"missing_point_ids": uuidStrings(missing),
		})
	}
	for _, p := range points {
		if p.OrganizationID != req.OrganizationID {
			return nil, nil, nil, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"foreign_point_id": p.ID.String(),
			})
		}
	}

	vehicles, err := uc.vehicleRepo.GetByIDs(ctx, req.VehicleIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	if missing := missingIDs(req.VehicleIDs, vehicleIDSet(vehicles)); len(missing) > 0 {
		return nil, nil, nil, apperrors.ErrVehicleNotFound.WithDetails(map[string]interface{}{
			"missing_vehicle_ids": uuidStrings(missing),
		})
	}
	for _, v := range vehicles {
		if v.OrganizationID != req.OrganizationID {
			return nil, nil, nil, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"foreign_vehicle_id": v.ID.String(),
			})
		}
		if v.MaxCapacity <= 0 {
			return nil, nil, nil, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"vehicle_id": v.ID.String(),
				"reason":     "non-positive capacity",
			})
		}
	}

	depot, err := uc.depotRepo.GetByOrganization(ctx, req.OrganizationID)
	if err != nil {
		return nil, nil, nil, err
	}

	// Индексы точек в решателе определяются этим порядком: фиксируем его
	// по ID, а не по порядку строк из базы, иначе тай-брейк недетерминирован
	sort.Slice(points, func(i, j int) bool {
		return bytes.Compare(points[i].ID[:], points[j].ID[:]) < 0
	})

	return points, vehicles, depot, nil
}

// filterPoints отсеивает уже убранные и внезональные точки.
// Отсеянное попадает в excluded, а не исчезает молча.
func (uc *OptimizationUseCase) filterPoints(
	points []*domain.CollectionPoint,
	zone *domain.Zone,
) ([]*domain.CollectionPoint, []uuid.UUID) {
	candidates := make([]*domain.CollectionPoint, 0, len(points))
	excluded := make([]uuid.UUID, 0)
	for _, p := range points {
		if p.Status == domain.PointStatusCleaned || !solver.InZone(p.Coordinate(), zone) {
			excluded = append(excluded, p.ID)
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates, excluded
}

// fetchMatrix получает матрицу от OSRM; при недоступности или искажённом
// ответе деградирует в haversine-оценку если запрос это разрешил
func (uc *OptimizationUseCase) fetchMatrix(
	ctx context.Context,
	req *domain.OptimizationRequest,
	depot *domain.Depot,
	candidates []*domain.CollectionPoint,
) (*domain.CostMatrix, error) {
	coords := make([]domain.Coordinate, len(candidates))
	for i, p := range candidates {
		coords[i] = p.Coordinate()
	}

	matrix, err := uc.routingRepo.GetMatrix(ctx, depot.Coordinate(), coords)
	if err == nil {
		return matrix, nil
	}

	degradable := errors.Is(err, apperrors.ErrMatrixUnavailable) || errors.Is(err, apperrors.ErrMatrixMalformed)
	if degradable && req.AllowEstimated && uc.fallbackRouting != nil {
		uc.logger.Warn("Routing engine unavailable, degrading to estimated matrix",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
		return uc.fallbackRouting.GetMatrix(ctx, depot.Coordinate(), coords)
	}

	return nil, err
}

func (uc *OptimizationUseCase) buildProblem(
	matrix *domain.CostMatrix,
	candidates []*domain.CollectionPoint,
	vehicles []*domain.Vehicle,
	req *domain.OptimizationRequest,
) *solver.Problem {
	demands := make([]float64, len(candidates))
	for i, p := range candidates {
		demands[i] = p.Demand(uc.opts.DefaultPointDemand)
	}

	specs := make([]solver.VehicleSpec, len(vehicles))
	for i, v := range vehicles {
		specs[i] = solver.VehicleSpec{ID: v.ID, Capacity: v.MaxCapacity}
	}

	maxDuration := 0.0
	if req.MaxTripDurationSec != nil {
		maxDuration = *req.MaxTripDurationSec
	}

	return &solver.Problem{
		Matrix:           matrix,
		Demands:          demands,
		Vehicles:         specs,
		MaxRouteDuration: maxDuration,
		ServiceTime:      uc.opts.StopServiceTime.Seconds(),
		TwoOptMaxPasses:  uc.opts.TwoOptMaxPasses,
	}
}

// materializeItineraries переводит решение в маршруты: дистанция и
// время из матрицы, топливо по расходу машины
func (uc *OptimizationUseCase) materializeItineraries(
	req *domain.OptimizationRequest,
	candidates []*domain.CollectionPoint,
	vehicles []*domain.Vehicle,
	sol *solver.Solution,
	estimated bool,
) []*domain.Itinerary {
	vehiclesByID := make(map[uuid.UUID]*domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		vehiclesByID[v.ID] = v
	}

	itineraries := make([]*domain.Itinerary, 0, len(sol.Routes))
	for _, route := range sol.Routes {
		if len(route.Order) == 0 {
			continue
		}
		pointIDs := make([]uuid.UUID, len(route.Order))
		for i, idx := range route.Order {
			pointIDs[i] = candidates[idx].ID
		}

		vehicle := vehiclesByID[route.VehicleID]
		itineraries = append(itineraries, &domain.Itinerary{
			ID:                   uuid.New(),
			OrganizationID:       req.OrganizationID,
			VehicleID:            route.VehicleID,
			PointIDs:             pointIDs,
			TotalDistanceM:       route.DistanceM,
			EstimatedDurationSec: route.DurationSec,
			EstimatedFuelLiters:  vehicle.FuelForDistance(route.DistanceM),
			Estimated:            estimated,
			Status:               domain.ItineraryStatusPending,
			CreatedAt:            time.Now().UTC(),
		})
	}
	return itineraries
}

func (uc *OptimizationUseCase) persistResult(
	ctx context.Context,
	req *domain.OptimizationRequest,
	result *domain.OptimizationResult,
	itineraries []*domain.Itinerary,
) (*domain.OptimizationResult, []*domain.Itinerary, error) {
	if err := uc.optimizationRepo.SaveRequest(ctx, req); err != nil {
		return nil, nil, err
	}
	// Маршруты и результат пишутся атомарно: обрыв посередине не должен
	// оставить маршруты-сироты без строки результата
	if err := uc.optimizationRepo.SaveResultWithItineraries(ctx, result, itineraries); err != nil {
		return nil, nil, err
	}
	uc.cacheResult(ctx, result)

	uc.logger.Info("Optimization completed",
		zap.String("request_id", req.ID.String()),
		zap.String("result_id", result.ID.String()),
		zap.Int("itineraries", len(itineraries)),
		zap.Float64("total_distance_m", result.TotalDistanceM),
		zap.Float64("efficiency_score", result.EfficiencyScore),
		zap.Bool("estimated", result.Estimated))

	return result, itineraries, nil
}

// persistFailure сохраняет запрос и неуспешный результат best-effort:
// ошибка сохранения логируется, но исходная ошибка важнее
func (uc *OptimizationUseCase) persistFailure(
	ctx context.Context,
	req *domain.OptimizationRequest,
	excluded []uuid.UUID,
	unassigned []uuid.UUID,
	cause error,
) {
	code := ""
	var appErr *apperrors.AppError
	if errors.As(cause, &appErr) {
		code = appErr.Code
	}

	result := &domain.OptimizationResult{
		ID:                 uuid.New(),
		RequestID:          req.ID,
		OrganizationID:     req.OrganizationID,
		ExcludedPointIDs:   excluded,
		UnassignedPointIDs: unassigned,
		Status:             domain.OptimizationStatusFailed,
		FailureCode:        code,
		CreatedAt:          time.Now().UTC(),
	}

	if err := uc.optimizationRepo.SaveRequest(ctx, req); err != nil {
		uc.logger.Error("Failed to persist failed request",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
		return
	}
	if err := uc.optimizationRepo.SaveResult(ctx, result); err != nil {
		uc.logger.Error("Failed to persist failed result",
			zap.String("request_id", req.ID.String()),
			zap.Error(err))
	}
}

func (uc *OptimizationUseCase) checkTimeout(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return apperrors.ErrOptimizationTimeout.WithDetails(map[string]interface{}{
		"reason": ctx.Err().Error(),
	})
}

func (uc *OptimizationUseCase) loadItineraries(
	ctx context.Context,
	ids []uuid.UUID,
) ([]*domain.Itinerary, error) {
	itineraries := make([]*domain.Itinerary, 0, len(ids))
	for _, id := range ids {
		it, err := uc.itineraryRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		itineraries = append(itineraries, it)
	}
	return itineraries, nil
}

func (uc *OptimizationUseCase) cacheKey(id uuid.UUID) string {
	return "optimization:result:" + id.String()
}

func (uc *OptimizationUseCase) resultFromCache(ctx context.Context, id uuid.UUID) *domain.OptimizationResult {
	if uc.cacheRepo == nil {
		return nil
	}
	data, err := uc.cacheRepo.Get(ctx, uc.cacheKey(id))
	if err != nil || data == nil {
		return nil
	}
	var result domain.OptimizationResult
	if err := json.Unmarshal(data, &result); err != nil {
		uc.logger.Warn("Failed to decode cached result", zap.Error(err))
		return nil
	}
	return &result
}

func (uc *OptimizationUseCase) cacheResult(ctx context.Context, result *domain.OptimizationResult) {
	if uc.cacheRepo == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := uc.cacheRepo.Set(ctx, uc.cacheKey(result.ID), data, uc.opts.ResultCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache result",
			zap.String("result_id", result.ID.String()),
			zap.Error(err))
	}
}

// efficiencyScore сравнивает фактическую дистанцию с суммой прямых
// поездок база-точка-база по назначенным точкам; ограничен единицей,
// монотонно не растёт с ростом фактической дистанции
func efficiencyScore(matrix *domain.CostMatrix, sol *solver.Solution) float64 {
	if len(sol.Routes) == 0 {
		return 0
	}
	if sol.TotalDistanceM <= 0 {
		return 1
	}
	var ideal float64
	for _, route := range sol.Routes {
		for _, idx := range route.Order {
			ideal += 2 * matrix.Distances[0][idx+1]
		}
	}
	score := ideal / sol.TotalDistanceM
	if score > 1 {
		return 1
	}
	return score
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func missingIDs(requested []uuid.UUID, found map[uuid.UUID]struct{}) []uuid.UUID {
	var missing []uuid.UUID
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func pointIDSet(points []*domain.CollectionPoint) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(points))
	for _, p := range points {
		set[p.ID] = struct{}{}
	}
	return set
}

func vehicleIDSet(vehicles []*domain.Vehicle) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(vehicles))
	for _, v := range vehicles {
		set[v.ID] = struct{}{}
	}
	return set
}
