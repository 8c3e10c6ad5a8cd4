package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/routing-microservice/internal/pkg/errors"
	"github.com/routing-microservice/internal/pkg/utils"
	"github.com/routing-microservice/internal/pkg/validator"
	"github.com/routing-microservice/internal/usecase"
	"github.com/routing-microservice/internal/usecase/dto"
)

// ItineraryHandler - обработчик запросов по маршрутам
type ItineraryHandler struct {
	itineraryUC *usecase.ItineraryUseCase
	logger      *zap.Logger
}

// NewItineraryHandler - создание нового ItineraryHandler
func NewItineraryHandler(itineraryUC *usecase.ItineraryUseCase, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryUC: itineraryUC,
		logger:      logger,
	}
}

// GetItinerary godoc
// @Summary Получение маршрута
// @Description Возвращает маршрут машины по идентификатору
// @Tags Itineraries
// @Produce json
// @Param id path string true "ID маршрута"
// @Success 200 {object} utils.SuccessResponse{data=dto.ItineraryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/itineraries/{id} [get]
func (h *ItineraryHandler) GetItinerary(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid itinerary id"))
	}

	itinerary, err := h.itineraryUC.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ItineraryFromDomain(itinerary), nil)
}

// UpdateItineraryStatus godoc
// @Summary Смена статуса маршрута
// @Description Переводит маршрут в новый статус: pending -> in_progress -> completed, отмена возможна до завершения. Недопустимый переход отклоняется.
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param id path string true "ID маршрута"
// @Param request body dto.UpdateItineraryStatusRequest true "Новый статус"
// @Success 200 {object} utils.SuccessResponse{data=dto.ItineraryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/itineraries/{id}/status [patch]
func (h *ItineraryHandler) UpdateItineraryStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid itinerary id"))
	}

	var req dto.UpdateItineraryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	itinerary, err := h.itineraryUC.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.ItineraryFromDomain(itinerary), nil)
}

// ListOrganizationItineraries godoc
// @Summary Маршруты организации
// @Description Возвращает последние маршруты организации
// @Tags Itineraries
// @Produce json
// @Param id path string true "ID организации"
// @Param limit query int false "Максимум результатов" default(50)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.ItineraryResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/organizations/{id}/itineraries [get]
func (h *ItineraryHandler) ListOrganizationItineraries(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid organization id"))
	}

	limit := c.QueryInt("limit", 0)
	itineraries, err := h.itineraryUC.ListByOrganization(c.Context(), orgID, limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	responses := make([]dto.ItineraryResponse, 0, len(itineraries))
	for _, it := range itineraries {
		responses = append(responses, dto.ItineraryFromDomain(it))
	}

	return utils.SendSuccess(c, responses, &utils.Meta{
		Total: len(responses),
	})
}
