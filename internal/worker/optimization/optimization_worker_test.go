package optimization

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/routing-microservice/internal/domain"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

func TestParseMessage(t *testing.T) {
	t.Run("valid event", func(t *testing.T) {
		event := domain.OptimizationRequestedEvent{
			RequestID:      uuid.New(),
			OrganizationID: uuid.New(),
			PointIDs:       []uuid.UUID{uuid.New()},
			VehicleIDs:     []uuid.UUID{uuid.New()},
		}
		data, err := json.Marshal(event)
		require.NoError(t, err)

		got, err := parseMessage(domain.StreamMessage{ID: "1-0", Data: string(data)})
		require.NoError(t, err)
		assert.Equal(t, event.RequestID, got.RequestID)
		assert.Equal(t, event.PointIDs, got.PointIDs)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := parseMessage(domain.StreamMessage{ID: "1-0", Data: "{not json"})
		assert.Error(t, err)
	})

	t.Run("missing request id", func(t *testing.T) {
		_, err := parseMessage(domain.StreamMessage{ID: "1-0", Data: "{}"})
		assert.Error(t, err)
	})
}

func TestRequestFromEvent(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()

	event := &domain.OptimizationRequestedEvent{
		RequestID:      uuid.New(),
		OrganizationID: uuid.New(),
		PointIDs:       []uuid.UUID{p1, p2, p1}, // дубликат
		VehicleIDs:     []uuid.UUID{uuid.New()},
		AllowPartial:   true,
	}

	req := RequestFromEvent(event)
	assert.Equal(t, event.RequestID, req.ID)
	assert.Equal(t, event.OrganizationID, req.OrganizationID)
	assert.Equal(t, []uuid.UUID{p1, p2}, req.PointIDs)
	assert.True(t, req.AllowPartial)
	assert.False(t, req.CreatedAt.IsZero())
}

func TestWorker_Stop(t *testing.T) {
	t.Run("stop interrupts error pause", func(t *testing.T) {
		streamRepo := new(MockStreamRepository)
		streamRepo.On("CreateConsumerGroup", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("redis down"))

		w := NewWorker(streamRepo, nil, "test-group", 10, zap.NewNop())

		done := make(chan error, 1)
		go func() { done <- w.Start(context.Background()) }()

		// воркер упирается в паузу после ошибки чтения пачки
		time.Sleep(50 * time.Millisecond)
		require.NoError(t, w.Stop())

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(500 * time.Millisecond):
			t.Fatal("worker kept sleeping after stop")
		}
	})

	t.Run("context cancel interrupts empty queue pause", func(t *testing.T) {
		streamRepo := new(MockStreamRepository)
		streamRepo.On("CreateConsumerGroup", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.StreamMessage{}, nil)

		w := NewWorker(streamRepo, nil, "test-group", 10, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- w.Start(ctx) }()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(500 * time.Millisecond):
			t.Fatal("worker ignored context cancellation")
		}
	})
}
