package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

type EditalClient interface {
	ListEditals(ctx context.Context) ([]models.Edital, error)
}

type editalClient struct {
	baseURL    string
	timeout    time.Duration
	retryCount int
	retryDelay time.Duration
	client     *http.Client
	logger     zerolog.Logger
}

func NewEditalClient(baseURL string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) EditalClient {
	return &editalClient{
		baseURL:    baseURL,
		timeout:    timeout,
		retryCount: retryCount,
		retryDelay: retryDelay,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *editalClient) ListEditals(ctx context.Context) ([]models.Edital, error) {
	url := c.baseURL + "/editals"

	var lastErr error

	for i := 0; i <= c.retryCount; i++ {
		if i > 0 {
			c.logger.Warn().Int("attempt", i).Msg("Retrying edital listing")
			time.Sleep(c.retryDelay * time.Duration(i))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to list editals: %w", err)
			continue
		}

		if isSuccess(resp.StatusCode) {
			var editals []models.Edital
			if err := json.NewDecoder(resp.Body).Decode(&editals); err != nil {
				resp.Body.Close()
				lastErr = fmt.Errorf("failed to decode response: %w", err)
				continue
			}
			resp.Body.Close()

			c.logger.Debug().Int("count", len(editals)).Msg("Got editals")
			return editals, nil
		}

		// 5xx vale nova tentativa; erro de cliente não.
		if resp.StatusCode < http.StatusInternalServerError {
			err := classifyResponse(resp)
			resp.Body.Close()
			return nil, err
		}

		lastErr = classifyResponse(resp)
		resp.Body.Close()
	}

	return nil, fmt.Errorf("failed to list editals after %d attempts: %w", c.retryCount+1, lastErr)
}
