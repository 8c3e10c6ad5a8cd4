package optimization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/routing-microservice/internal/domain"
	"github.com/routing-microservice/internal/domain/repository"
	apperrors "github.com/routing-microservice/internal/pkg/errors"
	"github.com/routing-microservice/internal/usecase"
	"github.com/routing-microservice/internal/worker"
)

const (
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	errorPause      = time.Second            // пауза после ошибки пачки
)

// Worker обрабатывает события расчёта маршрутов из Redis Stream
type Worker struct {
	*worker.BaseWorker
	streamRepo     repository.StreamRepository
	optimizationUC *usecase.OptimizationUseCase
	consumerName   string
	batchSize      int
}

// NewWorker создает новый Worker
func NewWorker(
	streamRepo repository.StreamRepository,
	optimizationUC *usecase.OptimizationUseCase,
	consumerGroup string,
	batchSize int,
	logger *zap.Logger,
) *Worker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	if batchSize <= 0 {
		batchSize = 10
	}

	return &Worker{
		BaseWorker:     worker.NewBaseWorker("route-optimization", consumerGroup, logger),
		streamRepo:     streamRepo,
		optimizationUC: optimizationUC,
		consumerName:   consumerName,
		batchSize:      batchSize,
	}
}

// Start запускает воркер
func (w *Worker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting route optimization worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamOptimizationRequested, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.pause(ctx, errorPause)
				continue
			}
			if processed == 0 {
				w.pause(ctx, emptyQueueSleep)
			}
		}
	}
}

// pause ждёт не дольше d, но прерывается остановкой воркера
// или отменой контекста
func (w *Worker) pause(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-w.StopChan():
	case <-ctx.Done():
	case <-timer.C:
	}
}

// processBatch читает и обрабатывает пачку событий.
// Каждое событие - независимый запрос: падение одного не блокирует
// остальные, результат (успех или типизированная ошибка) публикуется
// в done-стрим в любом случае.
func (w *Worker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamOptimizationRequested,
		w.ConsumerGroup(),
		w.consumerName,
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Info("Processing batch", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// ACK битое сообщение чтобы не застревало
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		doneEvent := w.processEvent(ctx, event)

		if err := w.streamRepo.PublishToStream(ctx, domain.StreamOptimizationDone, doneEvent); err != nil {
			logger.Error("Failed to publish done event",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
			// Не подтверждаем: сообщение будет переобработано
			continue
		}
		ackIDs = append(ackIDs, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamOptimizationRequested, w.ConsumerGroup(), ackIDs); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

// processEvent выполняет оптимизацию и строит done-событие
func (w *Worker) processEvent(ctx context.Context, event *domain.OptimizationRequestedEvent) *domain.OptimizationDoneEvent {
	req := RequestFromEvent(event)

	result, _, err := w.optimizationUC.Optimize(ctx, req)
	if err != nil {
		w.Logger().Warn("Optimization failed",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))

		doneEvent := &domain.OptimizationDoneEvent{
			RequestID: event.RequestID,
			Error:     err.Error(),
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			doneEvent.ErrorCode = appErr.Code
			if ids, ok := appErr.Details["unassigned_point_ids"]; ok {
				doneEvent.UnassignedPointIDs = parseDetailIDs(ids)
			}
		}
		return doneEvent
	}

	return &domain.OptimizationDoneEvent{
		RequestID:          event.RequestID,
		ResultID:           &result.ID,
		ItineraryIDs:       result.ItineraryIDs,
		EfficiencyScore:    result.EfficiencyScore,
		ExcludedPointIDs:   result.ExcludedPointIDs,
		UnassignedPointIDs: result.UnassignedPointIDs,
		Estimated:          result.Estimated,
	}
}

// RequestFromEvent строит доменный запрос из stream-события
func RequestFromEvent(event *domain.OptimizationRequestedEvent) *domain.OptimizationRequest {
	return &domain.OptimizationRequest{
		ID:                 event.RequestID,
		OrganizationID:     event.OrganizationID,
		PointIDs:           dedupe(event.PointIDs),
		VehicleIDs:         event.VehicleIDs,
		MaxTripDurationSec: event.MaxTripDurationSec,
		Zone:               event.Zone,
		AllowPartial:       event.AllowPartial,
		AllowEstimated:     event.AllowEstimated,
		CreatedAt:          time.Now().UTC(),
	}
}

func parseMessage(msg domain.StreamMessage) (*domain.OptimizationRequestedEvent, error) {
	var event domain.OptimizationRequestedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.RequestID == uuid.Nil {
		return nil, fmt.Errorf("event has no request_id")
	}
	return &event, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func parseDetailIDs(raw interface{}) []uuid.UUID {
	strs, ok := raw.([]string)
	if !ok {
		return nil
	}
	out := make([]uuid.UUID, 0, len(strs))
	for _, s := range strs {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
