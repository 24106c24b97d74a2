package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trampolim2024/trampolim-portal/internal/models"
	"github.com/trampolim2024/trampolim-portal/internal/service/integration"
	"github.com/trampolim2024/trampolim-portal/internal/session"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx := r.Context()
	resp, err := h.authClient.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, integration.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "E-mail ou senha incorretos")
			return
		}

		var apiErr *integration.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadGateway, apiErr.Message)
			return
		}

		h.logger.Error().Err(err).Msg("Login failed")
		writeError(w, http.StatusBadGateway, "Não foi possível entrar. Tente novamente.")
		return
	}

	if err := h.session.Save(ctx, resp.Token, resp.User); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save session")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeSuccess(w, resp.User)
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.session.User(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		h.logger.Error().Err(err).Msg("Failed to read session")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeSuccess(w, user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Clear(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Failed to clear session")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Sessão encerrada",
	})
}
