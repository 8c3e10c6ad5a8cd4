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

// OptimizationHandler - обработчик запросов на построение маршрутов
type OptimizationHandler struct {
	optimizationUC *usecase.OptimizationUseCase
	logger         *zap.Logger
}

// NewOptimizationHandler - создание нового OptimizationHandler
func NewOptimizationHandler(optimizationUC *usecase.OptimizationUseCase, logger *zap.Logger) *OptimizationHandler {
	return &OptimizationHandler{
		optimizationUC: optimizationUC,
		logger:         logger,
	}
}

// Optimize godoc
// @Summary Построение маршрутов сбора отходов
// @Description Распределяет точки сбора по машинам организации с учётом вместимости и лимита времени, минимизируя суммарную дистанцию. Возвращает маршруты, показатель эффективности и списки исключённых/неразмещённых точек.
// @Tags Optimization
// @Accept json
// @Produce json
// @Param request body dto.OptimizeRequest true "Параметры оптимизации"
// @Success 200 {object} utils.SuccessResponse{data=dto.OptimizationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 504 {object} utils.ErrorResponse
// @Router /api/v1/optimize [post]
func (h *OptimizationHandler) Optimize(c *fiber.Ctx) error {
	var req dto.OptimizeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		}))
	}

	result, itineraries, err := h.optimizationUC.Optimize(c.Context(), domainReq)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.OptimizationFromDomain(result, itineraries), nil)
}

// GetOptimization godoc
// @Summary Получение результата оптимизации
// @Description Возвращает сохранённый результат оптимизации с маршрутами по его идентификатору
// @Tags Optimization
// @Produce json
// @Param id path string true "ID результата"
// @Success 200 {object} utils.SuccessResponse{data=dto.OptimizationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/optimizations/{id} [get]
func (h *OptimizationHandler) GetOptimization(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid optimization id"))
	}

	result, itineraries, err := h.optimizationUC.GetResult(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.OptimizationFromDomain(result, itineraries), nil)
}

// GetOptimizationByRequest godoc
// @Summary Получение результата по идентификатору запроса
// @Description Возвращает результат оптимизации по ID исходного запроса (связь 1:1)
// @Tags Optimization
// @Produce json
// @Param request_id path string true "ID запроса"
// @Success 200 {object} utils.SuccessResponse{data=dto.OptimizationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/optimizations/by-request/{request_id} [get]
func (h *OptimizationHandler) GetOptimizationByRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("request_id"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("invalid request id"))
	}

	result, itineraries, err := h.optimizationUC.GetResultByRequestID(c.Context(), requestID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.OptimizationFromDomain(result, itineraries), nil)
}
