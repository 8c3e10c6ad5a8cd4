package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/routing-microservice/internal/domain"
	apperrors "github.com/routing-microservice/internal/pkg/errors"
	"github.com/routing-microservice/internal/usecase"
)

func TestItineraryUseCase_UpdateStatus(t *testing.T) {
	itineraryID := uuid.New()

	t.Run("valid transition", func(t *testing.T) {
		repo := new(MockItineraryRepository)
		uc := usecase.NewItineraryUseCase(repo, zap.NewNop())

		pending := &domain.Itinerary{ID: itineraryID, Status: domain.ItineraryStatusPending}
		started := &domain.Itinerary{ID: itineraryID, Status: domain.ItineraryStatusInProgress}

		repo.On("GetByID", mock.Anything, itineraryID).Return(pending, nil).Once()
		repo.On("UpdateStatus", mock.Anything, itineraryID, domain.ItineraryStatusInProgress).Return(nil)
		repo.On("GetByID", mock.Anything, itineraryID).Return(started, nil).Once()

		result, err := uc.UpdateStatus(context.Background(), itineraryID, domain.ItineraryStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, domain.ItineraryStatusInProgress, result.Status)
		repo.AssertExpectations(t)
	})

	t.Run("invalid transition rejected before repository write", func(t *testing.T) {
		repo := new(MockItineraryRepository)
		uc := usecase.NewItineraryUseCase(repo, zap.NewNop())

		completed := &domain.Itinerary{ID: itineraryID, Status: domain.ItineraryStatusCompleted}
		repo.On("GetByID", mock.Anything, itineraryID).Return(completed, nil)

		result, err := uc.UpdateStatus(context.Background(), itineraryID, domain.ItineraryStatusInProgress)
		assert.Nil(t, result)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrInvalidStatusTransition.Code, appErr.Code)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := new(MockItineraryRepository)
		uc := usecase.NewItineraryUseCase(repo, zap.NewNop())

		result, err := uc.UpdateStatus(context.Background(), itineraryID, "paused")
		assert.Nil(t, result)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrInvalidRequest.Code, appErr.Code)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockItineraryRepository)
		uc := usecase.NewItineraryUseCase(repo, zap.NewNop())

		repo.On("GetByID", mock.Anything, itineraryID).Return(nil, apperrors.ErrItineraryNotFound)

		result, err := uc.UpdateStatus(context.Background(), itineraryID, domain.ItineraryStatusCancelled)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrItineraryNotFound)
	})
}

func TestItineraryUseCase_ListByOrganization(t *testing.T) {
	orgID := uuid.New()

	t.Run("default limit applied", func(t *testing.T) {
		repo := new(MockItineraryRepository)
		uc := usecase.NewItineraryUseCase(repo, zap.NewNop())

		repo.On("ListByOrganization", mock.Anything, orgID, 50).Return([]*domain.Itinerary{}, nil)

		_, err := uc.ListByOrganization(context.Background(), orgID, 0)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("explicit limit passed through", func(t *testing.T) {
		repo := new(MockItineraryRepository)
		uc := usecase.NewItineraryUseCase(repo, zap.NewNop())

		itineraries := []*domain.Itinerary{
			{ID: uuid.New(), OrganizationID: orgID, Status: domain.ItineraryStatusPending},
		}
		repo.On("ListByOrganization", mock.Anything, orgID, 10).Return(itineraries, nil)

		result, err := uc.ListByOrganization(context.Background(), orgID, 10)
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})
}
