package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/routing-microservice/internal/domain"
)

// MockPointRepository is a mock of PointRepository
type MockPointRepository struct {
	mock.Mock
}

func (m *MockPointRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.CollectionPoint, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CollectionPoint), args.Error(1)
}

func (m *MockPointRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, status string) ([]*domain.CollectionPoint, error) {
	args := m.Called(ctx, orgID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CollectionPoint), args.Error(1)
}

// MockVehicleRepository is a mock of VehicleRepository
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

// MockDepotRepository is a mock of DepotRepository
type MockDepotRepository struct {
	mock.Mock
}

func (m *MockDepotRepository) GetByOrganization(ctx context.Context, orgID uuid.UUID) (*domain.Depot, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Depot), args.Error(1)
}

// MockItineraryRepository is a mock of ItineraryRepository
type MockItineraryRepository struct {
	mock.Mock
}

func (m *MockItineraryRepository) Create(ctx context.Context, itinerary *domain.Itinerary) error {
	args := m.Called(ctx, itinerary)
	return args.Error(0)
}

func (m *MockItineraryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, limit int) ([]*domain.Itinerary, error) {
	args := m.Called(ctx, orgID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockOptimizationRepository is a mock of OptimizationRepository
type MockOptimizationRepository struct {
	mock.Mock
}

func (m *MockOptimizationRepository) SaveRequest(ctx context.Context, req *domain.OptimizationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockOptimizationRepository) SaveResult(ctx context.Context, result *domain.OptimizationResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockOptimizationRepository) SaveResultWithItineraries(ctx context.Context, result *domain.OptimizationResult, itineraries []*domain.Itinerary) error {
	args := m.Called(ctx, result, itineraries)
	return args.Error(0)
}

func (m *MockOptimizationRepository) GetResultByID(ctx context.Context, id uuid.UUID) (*domain.OptimizationResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OptimizationResult), args.Error(1)
}

func (m *MockOptimizationRepository) GetResultByRequestID(ctx context.Context, requestID uuid.UUID) (*domain.OptimizationResult, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OptimizationResult), args.Error(1)
}

// MockRoutingRepository is a mock of RoutingRepository
type MockRoutingRepository struct {
	mock.Mock
}

func (m *MockRoutingRepository) GetMatrix(ctx context.Context, depot domain.Coordinate, points []domain.Coordinate) (*domain.CostMatrix, error) {
	args := m.Called(ctx, depot, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostMatrix), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
