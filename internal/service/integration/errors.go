package integration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

var (
	// ErrUnauthorized indica sessão expirada ou token inválido (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indica acesso negado ao recurso (403).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indica ausência do recurso; no caminho de leitura de
	// projetos é um estado esperado, não excepcional (404).
	ErrNotFound = errors.New("not found")
)

// APIError carrega o status e a mensagem devolvidos pelo backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// classifyResponse traduz um status não-2xx no erro sentinela ou em APIError
// com a mensagem do corpo `{message}` quando houver.
func classifyResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}

	message := serverMessage(resp)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

func serverMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ""
	}

	var backendErr models.BackendError
	if err := json.Unmarshal(body, &backendErr); err != nil {
		return ""
	}

	return backendErr.Message
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
