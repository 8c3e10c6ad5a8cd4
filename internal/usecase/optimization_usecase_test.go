package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/routing-microservice/internal/domain"
	apperrors "github.com/routing-microservice/internal/pkg/errors"
	"github.com/routing-microservice/internal/usecase"
)

type optimizationFixture struct {
	pointRepo        *MockPointRepository
	vehicleRepo      *MockVehicleRepository
	depotRepo        *MockDepotRepository
	itineraryRepo    *MockItineraryRepository
	optimizationRepo *MockOptimizationRepository
	routingRepo      *MockRoutingRepository
	fallbackRepo     *MockRoutingRepository
	cacheRepo        *MockCacheRepository
	uc               *usecase.OptimizationUseCase
}

func newOptimizationFixture(opts usecase.OptimizerOptions) *optimizationFixture {
	f := &optimizationFixture{
		pointRepo:        new(MockPointRepository),
		vehicleRepo:      new(MockVehicleRepository),
		depotRepo:        new(MockDepotRepository),
		itineraryRepo:    new(MockItineraryRepository),
		optimizationRepo: new(MockOptimizationRepository),
		routingRepo:      new(MockRoutingRepository),
		fallbackRepo:     new(MockRoutingRepository),
		cacheRepo:        new(MockCacheRepository),
	}
	f.uc = usecase.NewOptimizationUseCase(
		f.pointRepo,
		f.vehicleRepo,
		f.depotRepo,
		f.itineraryRepo,
		f.optimizationRepo,
		f.routingRepo,
		f.fallbackRepo,
		f.cacheRepo,
		zap.NewNop(),
		opts,
	)
	return f
}

func defaultOptions() usecase.OptimizerOptions {
	return usecase.OptimizerOptions{
		DefaultPointDemand: 120,
		RequestTimeout:     5 * time.Second,
		ResultCacheTTL:     time.Hour,
	}
}

func volume(v float64) *float64 { return &v }

func symmetricMatrix(distances [][]float64) *domain.CostMatrix {
	durations := make([][]float64, len(distances))
	for i, row := range distances {
		durations[i] = append([]float64(nil), row...)
	}
	return &domain.CostMatrix{Distances: distances, Durations: durations}
}

func (f *optimizationFixture) expectPersistence() {
	f.optimizationRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(nil)
	f.optimizationRepo.On("SaveResultWithItineraries", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.cacheRepo.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestOptimizationUseCase_Optimize(t *testing.T) {
	orgID := uuid.New()
	depot := &domain.Depot{ID: uuid.New(), OrganizationID: orgID, Lat: 55.75, Lon: 37.61}

	newRequest := func(points []*domain.CollectionPoint, vehicles []*domain.Vehicle) *domain.OptimizationRequest {
		req := &domain.OptimizationRequest{
			ID:             uuid.New(),
			OrganizationID: orgID,
		}
		for _, p := range points {
			req.PointIDs = append(req.PointIDs, p.ID)
		}
		for _, v := range vehicles {
			req.VehicleIDs = append(req.VehicleIDs, v.ID)
		}
		return req
	}

	t.Run("successful optimization with single vehicle", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.77, Lon: 37.63, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeTruck, MaxCapacity: 20, FuelConsumption: 10},
		}
		req := newRequest(points, vehicles)

		matrix := symmetricMatrix([][]float64{
			{0, 1000, 2000},
			{1000, 0, 1000},
			{2000, 1000, 0},
		})

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, depot.Coordinate(), mock.Anything).Return(matrix, nil)
		f.expectPersistence()

		result, itineraries, err := f.uc.Optimize(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, domain.OptimizationStatusCompleted, result.Status)
		assert.False(t, result.Estimated)
		assert.Empty(t, result.UnassignedPointIDs)
		assert.Empty(t, result.ExcludedPointIDs)
		assert.Equal(t, 4000.0, result.TotalDistanceM)
		// сумма прямых поездок 2*1000 + 2*2000 = 6000 > 4000, скор обрезан
		assert.Equal(t, 1.0, result.EfficiencyScore)

		require.Len(t, itineraries, 1)
		it := itineraries[0]
		assert.Equal(t, vehicles[0].ID, it.VehicleID)
		assert.Equal(t, []uuid.UUID{points[0].ID, points[1].ID}, it.PointIDs)
		assert.Equal(t, domain.ItineraryStatusPending, it.Status)
		// 4 км при расходе 10 л/100км
		assert.InDelta(t, 0.4, it.EstimatedFuelLiters, 1e-9)

		f.optimizationRepo.AssertExpectations(t)
		f.itineraryRepo.AssertExpectations(t)
	})

	t.Run("capacity forces two itineraries", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.77, Lon: 37.63, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 8},
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 8},
		}
		req := newRequest(points, vehicles)

		matrix := symmetricMatrix([][]float64{
			{0, 1000, 2000},
			{1000, 0, 1000},
			{2000, 1000, 0},
		})

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, depot.Coordinate(), mock.Anything).Return(matrix, nil)
		f.expectPersistence()

		result, itineraries, err := f.uc.Optimize(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, itineraries, 2)
		assert.Empty(t, result.UnassignedPointIDs)
		for _, it := range itineraries {
			assert.Len(t, it.PointIDs, 1)
		}
	})

	t.Run("infeasible fails and persists unassigned set", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.77, Lon: 37.63, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 8},
		}
		req := newRequest(points, vehicles)

		matrix := symmetricMatrix([][]float64{
			{0, 1000, 2000},
			{1000, 0, 1000},
			{2000, 1000, 0},
		})

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, depot.Coordinate(), mock.Anything).Return(matrix, nil)
		f.optimizationRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(nil)
		f.optimizationRepo.On("SaveResult", mock.Anything, mock.MatchedBy(func(r *domain.OptimizationResult) bool {
			return r.Status == domain.OptimizationStatusFailed &&
				r.FailureCode == apperrors.ErrInfeasible.Code &&
				len(r.UnassignedPointIDs) == 1
		})).Return(nil)

		result, itineraries, err := f.uc.Optimize(context.Background(), req)
		assert.Nil(t, result)
		assert.Nil(t, itineraries)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrInfeasible.Code, appErr.Code)

		f.optimizationRepo.AssertExpectations(t)
		f.optimizationRepo.AssertNotCalled(t, "SaveResultWithItineraries", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("allow partial keeps unassigned in successful result", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.77, Lon: 37.63, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 8},
		}
		req := newRequest(points, vehicles)
		req.AllowPartial = true

		matrix := symmetricMatrix([][]float64{
			{0, 1000, 2000},
			{1000, 0, 1000},
			{2000, 1000, 0},
		})

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, depot.Coordinate(), mock.Anything).Return(matrix, nil)
		f.expectPersistence()

		result, itineraries, err := f.uc.Optimize(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, domain.OptimizationStatusCompleted, result.Status)
		require.Len(t, itineraries, 1)
		assert.Len(t, result.UnassignedPointIDs, 1)
	})

	t.Run("zone filter excludes out of zone and cleaned points", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
			// далеко за пределами зоны 5 км
			{ID: uuid.New(), OrganizationID: orgID, Lat: 59.93, Lon: 30.33, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
			// уже убрана
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusCleaned},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 20},
		}
		req := newRequest(points, vehicles)
		req.Zone = &domain.Zone{Center: domain.Coordinate{Lat: 55.75, Lon: 37.61}, RadiusKm: 5}

		matrix := symmetricMatrix([][]float64{
			{0, 1000},
			{1000, 0},
		})

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, depot.Coordinate(), mock.MatchedBy(func(coords []domain.Coordinate) bool {
			return len(coords) == 1
		})).Return(matrix, nil)
		f.expectPersistence()

		result, itineraries, err := f.uc.Optimize(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, itineraries, 1)
		assert.ElementsMatch(t, []uuid.UUID{points[1].ID, points[2].ID}, result.ExcludedPointIDs)
		assert.Equal(t, []uuid.UUID{points[0].ID}, itineraries[0].PointIDs)
	})

	t.Run("matrix unavailable without estimation fails request", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 20},
		}
		req := newRequest(points, vehicles)

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrMatrixUnavailable)
		f.optimizationRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(nil)
		f.optimizationRepo.On("SaveResult", mock.Anything, mock.MatchedBy(func(r *domain.OptimizationResult) bool {
			return r.Status == domain.OptimizationStatusFailed &&
				r.FailureCode == apperrors.ErrMatrixUnavailable.Code
		})).Return(nil)

		_, _, err := f.uc.Optimize(context.Background(), req)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrMatrixUnavailable.Code, appErr.Code)
		f.fallbackRepo.AssertNotCalled(t, "GetMatrix", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("matrix unavailable degrades to estimate when allowed", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 20},
		}
		req := newRequest(points, vehicles)
		req.AllowEstimated = true

		estimated := symmetricMatrix([][]float64{
			{0, 1200},
			{1200, 0},
		})
		estimated.Estimated = true

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrMatrixUnavailable)
		f.fallbackRepo.On("GetMatrix", mock.Anything, mock.Anything, mock.Anything).Return(estimated, nil)
		f.expectPersistence()

		result, itineraries, err := f.uc.Optimize(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, result.Estimated)
		require.Len(t, itineraries, 1)
		assert.True(t, itineraries[0].Estimated)
	})

	t.Run("malformed matrix degrades to estimate when allowed", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 20},
		}
		req := newRequest(points, vehicles)
		req.AllowEstimated = true

		estimated := symmetricMatrix([][]float64{
			{0, 1200},
			{1200, 0},
		})
		estimated.Estimated = true

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrMatrixMalformed)
		f.fallbackRepo.On("GetMatrix", mock.Anything, mock.Anything, mock.Anything).Return(estimated, nil)
		f.expectPersistence()

		result, itineraries, err := f.uc.Optimize(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, result.Estimated)
		require.Len(t, itineraries, 1)
	})

	t.Run("tie between equal points resolves to lower id regardless of row order", func(t *testing.T) {
		idA := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		idB := uuid.MustParse("00000000-0000-0000-0000-000000000002")
		pointA := &domain.CollectionPoint{ID: idA, OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported}
		pointB := &domain.CollectionPoint{ID: idB, OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 8},
		}

		// обе точки равноудалены, вместимости хватает только на одну
		matrix := symmetricMatrix([][]float64{
			{0, 1000, 1000},
			{1000, 0, 1000},
			{1000, 1000, 0},
		})

		// база не гарантирует порядок строк при выборке по списку ID
		for _, loaded := range [][]*domain.CollectionPoint{
			{pointA, pointB},
			{pointB, pointA},
		} {
			req := newRequest([]*domain.CollectionPoint{pointA, pointB}, vehicles)
			req.AllowPartial = true

			f := newOptimizationFixture(defaultOptions())
			f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(loaded, nil)
			f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
			f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
			f.routingRepo.On("GetMatrix", mock.Anything, depot.Coordinate(), mock.Anything).Return(matrix, nil)
			f.expectPersistence()

			result, itineraries, err := f.uc.Optimize(context.Background(), req)
			require.NoError(t, err)
			require.Len(t, itineraries, 1)
			assert.Equal(t, []uuid.UUID{idA}, itineraries[0].PointIDs)
			assert.Equal(t, []uuid.UUID{idB}, result.UnassignedPointIDs)
		}
	})

	t.Run("result persistence failure surfaces error", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 20},
		}
		req := newRequest(points, vehicles)

		matrix := symmetricMatrix([][]float64{
			{0, 1000},
			{1000, 0},
		})

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, mock.Anything, mock.Anything).Return(matrix, nil)
		f.optimizationRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(nil)
		f.optimizationRepo.On("SaveResultWithItineraries", mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrDatabaseError)

		result, itineraries, err := f.uc.Optimize(context.Background(), req)
		assert.Nil(t, result)
		assert.Nil(t, itineraries)
		assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
		f.cacheRepo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing points are rejected", func(t *testing.T) {
		known := &domain.CollectionPoint{
			ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, Status: domain.PointStatusReported,
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 20},
		}
		req := newRequest([]*domain.CollectionPoint{known}, vehicles)
		req.PointIDs = append(req.PointIDs, uuid.New()) // несуществующая точка

		f := newOptimizationFixture(defaultOptions())
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return([]*domain.CollectionPoint{known}, nil)

		_, _, err := f.uc.Optimize(context.Background(), req)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrPointNotFound.Code, appErr.Code)
		f.optimizationRepo.AssertNotCalled(t, "SaveRequest", mock.Anything, mock.Anything)
	})

	t.Run("timeout persists nothing", func(t *testing.T) {
		points := []*domain.CollectionPoint{
			{ID: uuid.New(), OrganizationID: orgID, Lat: 55.76, Lon: 37.62, EstimatedVolume: volume(5), Status: domain.PointStatusReported},
		}
		vehicles := []*domain.Vehicle{
			{ID: uuid.New(), OrganizationID: orgID, Type: domain.VehicleTypeVan, MaxCapacity: 20},
		}
		req := newRequest(points, vehicles)

		matrix := symmetricMatrix([][]float64{
			{0, 1000},
			{1000, 0},
		})

		opts := defaultOptions()
		opts.RequestTimeout = time.Nanosecond

		f := newOptimizationFixture(opts)
		f.pointRepo.On("GetByIDs", mock.Anything, req.PointIDs).Return(points, nil)
		f.vehicleRepo.On("GetByIDs", mock.Anything, req.VehicleIDs).Return(vehicles, nil)
		f.depotRepo.On("GetByOrganization", mock.Anything, orgID).Return(depot, nil)
		f.routingRepo.On("GetMatrix", mock.Anything, mock.Anything, mock.Anything).Return(matrix, nil)

		_, _, err := f.uc.Optimize(context.Background(), req)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrOptimizationTimeout.Code, appErr.Code)
		f.optimizationRepo.AssertNotCalled(t, "SaveRequest", mock.Anything, mock.Anything)
		f.optimizationRepo.AssertNotCalled(t, "SaveResult", mock.Anything, mock.Anything)
		f.optimizationRepo.AssertNotCalled(t, "SaveResultWithItineraries", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOptimizationUseCase_GetResult(t *testing.T) {
	resultID := uuid.New()
	itineraryID := uuid.New()
	stored := &domain.OptimizationResult{
		ID:           resultID,
		RequestID:    uuid.New(),
		ItineraryIDs: []uuid.UUID{itineraryID},
		Status:       domain.OptimizationStatusCompleted,
	}
	itinerary := &domain.Itinerary{ID: itineraryID, Status: domain.ItineraryStatusPending}

	t.Run("cache miss loads from repository", func(t *testing.T) {
		f := newOptimizationFixture(defaultOptions())
		f.cacheRepo.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
		f.cacheRepo.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.optimizationRepo.On("GetResultByID", mock.Anything, resultID).Return(stored, nil)
		f.itineraryRepo.On("GetByID", mock.Anything, itineraryID).Return(itinerary, nil)

		result, itineraries, err := f.uc.GetResult(context.Background(), resultID)
		require.NoError(t, err)
		assert.Equal(t, resultID, result.ID)
		require.Len(t, itineraries, 1)
		f.optimizationRepo.AssertExpectations(t)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		data := []byte(`{"id":"` + resultID.String() + `","itinerary_ids":["` + itineraryID.String() + `"],"status":"completed"}`)

		f := newOptimizationFixture(defaultOptions())
		f.cacheRepo.On("Get", mock.Anything, mock.Anything).Return(data, nil)
		f.itineraryRepo.On("GetByID", mock.Anything, itineraryID).Return(itinerary, nil)

		result, itineraries, err := f.uc.GetResult(context.Background(), resultID)
		require.NoError(t, err)
		assert.Equal(t, resultID, result.ID)
		require.Len(t, itineraries, 1)
		f.optimizationRepo.AssertNotCalled(t, "GetResultByID", mock.Anything, mock.Anything)
	})

	t.Run("not found propagates", func(t *testing.T) {
		f := newOptimizationFixture(defaultOptions())
		f.cacheRepo.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
		f.optimizationRepo.On("GetResultByID", mock.Anything, resultID).Return(nil, apperrors.ErrOptimizationNotFound)

		result, itineraries, err := f.uc.GetResult(context.Background(), resultID)
		assert.Nil(t, result)
		assert.Nil(t, itineraries)
		assert.ErrorIs(t, err, apperrors.ErrOptimizationNotFound)
	})
}
