package osrm

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/routing-microservice/internal/config"
	"github.com/routing-microservice/internal/domain"
	"github.com/routing-microservice/internal/domain/repository"
	apperrors "github.com/routing-microservice/internal/pkg/errors"
	"github.com/routing-microservice/internal/pkg/utils"
)

const initialBackoff = 200 * time.Millisecond

type client struct {
	httpClient    *http.Client
	baseURL       string
	profile       string
	retryAttempts int
	maxPoints     int
	logger        *zap.Logger
}

// NewClient создает клиент для OSRM table API
func NewClient(cfg *config.RoutingConfig, logger *zap.Logger) repository.RoutingRepository {
	retryAttempts := cfg.RetryAttempts
	if retryAttempts < 1 {
		retryAttempts = 1
	}

	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:       strings.TrimRight(cfg.OSRMBaseURL, "/"),
		profile:       cfg.Profile,
		retryAttempts: retryAttempts,
		maxPoints:     cfg.MaxMatrixPoints,
		logger:        logger,
	}
}

// GetMatrix возвращает матрицу расстояний и времени; узел 0 - база
func (c *client) GetMatrix(
	ctx context.Context,
	depot domain.Coordinate,
	points []domain.Coordinate,
) (*domain.CostMatrix, error) {
	if len(points) == 0 {
		return nil, apperrors.ErrInvalidRequest.WithMessage("at least one point is required for a matrix")
	}
	if len(points)+1 > c.maxPoints {
		return nil, apperrors.ErrTooManyPoints.WithDetails(map[string]interface{}{
			"points": len(points) + 1,
			"limit":  c.maxPoints,
		})
	}
	if !utils.ValidateCoordinates(depot.Lat, depot.Lon) {
		return nil, apperrors.ErrInvalidCoordinates.WithMessage("depot coordinates are out of range")
	}
	for i, p := range points {
		if !utils.ValidateCoordinates(p.Lat, p.Lon) {
			return nil, apperrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
				"point_index": i,
			})
		}
	}

	// Координаты OSRM идут как lon,lat; база всегда первая
	coords := make([]string, 0, len(points)+1)
	coords = append(coords, fmt.Sprintf("%f,%f", depot.Lon, depot.Lat))
	for _, p := range points {
		coords = append(coords, fmt.Sprintf("%f,%f", p.Lon, p.Lat))
	}

	url := fmt.Sprintf("%s/table/v1/%s/%s?annotations=duration,distance",
		c.baseURL,
		c.profile,
		strings.Join(coords, ";"),
	)

	c.logger.Debug("Calling OSRM table API",
		zap.Int("nodes", len(coords)),
		zap.String("profile", c.profile))

	return c.fetchWithRetry(ctx, url, len(coords))
}

// fetchWithRetry выполняет запрос с экспоненциальным backoff.
// Повторяются и сетевые ошибки (429/5xx/таймаут), и искажённые ответы:
// после исчерпания попыток искажение сохраняет код MATRIX_MALFORMED,
// остальное схлопывается в MATRIX_UNAVAILABLE.
func (c *client) fetchWithRetry(ctx context.Context, url string, dim int) (*domain.CostMatrix, error) {
	backoff := initialBackoff
	var lastErr error

	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		matrix, err := c.fetchOnce(ctx, url, dim)
		if err == nil {
			return matrix, nil
		}
		lastErr = err

		c.logger.Warn("OSRM request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.retryAttempts),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		if attempt == c.retryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, apperrors.ErrMatrixUnavailable.WithDetails(map[string]interface{}{
				"reason": ctx.Err().Error(),
			})
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	c.logger.Error("OSRM unusable after retries",
		zap.Int("attempts", c.retryAttempts),
		zap.Error(lastErr))
	if goerrors.Is(lastErr, apperrors.ErrMatrixMalformed) {
		return nil, lastErr
	}
	return nil, apperrors.ErrMatrixUnavailable.WithDetails(map[string]interface{}{
		"attempts": c.retryAttempts,
		"reason":   lastErr.Error(),
	})
}

// fetchOnce - одна попытка: HTTP запрос плюс валидация матрицы
func (c *client) fetchOnce(ctx context.Context, url string, dim int) (*domain.CostMatrix, error) {
	resp, err := c.doOnce(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.buildMatrix(resp, dim)
}

func (c *client) doOnce(ctx context.Context, url string) (*domain.MatrixResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, fmt.Errorf("osrm request timed out: %w", err)
		}
		return nil, fmt.Errorf("osrm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, fmt.Errorf("osrm returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, apperrors.ErrMatrixMalformed.WithDetails(map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		})
	}

	var matrixResp domain.MatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&matrixResp); err != nil {
		return nil, apperrors.ErrMatrixMalformed.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}
	if matrixResp.Code != "Ok" {
		return nil, apperrors.ErrMatrixMalformed.WithDetails(map[string]interface{}{
			"code":    matrixResp.Code,
			"message": matrixResp.Message,
		})
	}
	return &matrixResp, nil
}

// buildMatrix переводит wire-ответ в CostMatrix, отвергая неполные данные
func (c *client) buildMatrix(resp *domain.MatrixResponse, dim int) (*domain.CostMatrix, error) {
	distances, err := denseMatrix(resp.Distances, dim, "distances")
	if err != nil {
		return nil, err
	}
	durations, err := denseMatrix(resp.Durations, dim, "durations")
	if err != nil {
		return nil, err
	}

	matrix := &domain.CostMatrix{
		Distances: distances,
		Durations: durations,
		Estimated: false,
	}
	if !matrix.IsComplete() {
		return nil, apperrors.ErrMatrixMalformed.WithDetails(map[string]interface{}{
			"reason": "matrix contains non-finite or negative values",
		})
	}
	return matrix, nil
}

func denseMatrix(rows [][]*float64, dim int, field string) ([][]float64, error) {
	if len(rows) != dim {
		return nil, apperrors.ErrMatrixMalformed.WithDetails(map[string]interface{}{
			"field":    field,
			"expected": dim,
			"got":      len(rows),
		})
	}
	out := make([][]float64, dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, apperrors.ErrMatrixMalformed.WithDetails(map[string]interface{}{
				"field":    field,
				"row":      i,
				"expected": dim,
				"got":      len(row),
			})
		}
		out[i] = make([]float64, dim)
		for j, cell := range row {
			// OSRM отдаёт null для недостижимых пар
			if cell == nil {
				return nil, apperrors.ErrMatrixMalformed.WithDetails(map[string]interface{}{
					"field": field,
					"row":   i,
					"col":   j,
				})
			}
			out[i][j] = *cell
		}
	}
	return out, nil
}
