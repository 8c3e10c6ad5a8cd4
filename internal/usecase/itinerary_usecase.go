package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/routing-microservice/internal/domain"
	"github.com/routing-microservice/internal/domain/repository"
	apperrors "github.com/routing-microservice/internal/pkg/errors"
)

const defaultItineraryLimit = 50

// ItineraryUseCase - операции над готовыми маршрутами:
// выборки и переходы статуса. Порядок точек не изменяется.
type ItineraryUseCase struct {
	itineraryRepo repository.ItineraryRepository
	logger        *zap.Logger
}

// NewItineraryUseCase создает новый ItineraryUseCase
func NewItineraryUseCase(
	itineraryRepo repository.ItineraryRepository,
	logger *zap.Logger,
) *ItineraryUseCase {
	return &ItineraryUseCase{
		itineraryRepo: itineraryRepo,
		logger:        logger,
	}
}

// GetByID возвращает маршрут по идентификатору
func (uc *ItineraryUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	return uc.itineraryRepo.GetByID(ctx, id)
}

// ListByOrganization возвращает маршруты организации
func (uc *ItineraryUseCase) ListByOrganization(
	ctx context.Context,
	orgID uuid.UUID,
	limit int,
) ([]*domain.Itinerary, error) {
	if limit <= 0 {
		limit = defaultItineraryLimit
	}
	return uc.itineraryRepo.ListByOrganization(ctx, orgID, limit)
}

// UpdateStatus выполняет переход статуса маршрута.
// Недопустимый переход отклоняется до обращения к базе.
func (uc *ItineraryUseCase) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
) (*domain.Itinerary, error) {
	if !domain.IsValidItineraryStatus(status) {
		return nil, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"status": status,
		})
	}

	itinerary, err := uc.itineraryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !itinerary.CanTransitionTo(status) {
		return nil, apperrors.ErrInvalidStatusTransition.WithDetails(map[string]interface{}{
			"from": itinerary.Status,
			"to":   status,
		})
	}

	if err := uc.itineraryRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	uc.logger.Info("Itinerary status updated",
		zap.String("itinerary_id", id.String()),
		zap.String("from", itinerary.Status),
		zap.String("to", status))

	return uc.itineraryRepo.GetByID(ctx, id)
}
