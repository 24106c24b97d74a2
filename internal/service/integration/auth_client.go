package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

type AuthClient interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}

type authClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  zerolog.Logger
}

func NewAuthClient(baseURL string, timeout time.Duration, logger zerolog.Logger) AuthClient {
	return &authClient{
		baseURL: baseURL,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *authClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	payload, err := json.Marshal(models.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	url := c.baseURL + "/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, classifyResponse(resp)
	}

	var loginResp models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info().
		Str("user_id", loginResp.User.ID).
		Str("role", loginResp.User.Role).
		Msg("Logged in")

	return &loginResp, nil
}
