package httpd

import (
	"net/http"
	"time"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

type editalView struct {
	models.Edital
	Active bool `json:"active"`
}

func (h *Handler) ListEditals(w http.ResponseWriter, r *http.Request) {
	editals, err := h.editalClient.ListEditals(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list editals")
		writeError(w, http.StatusBadGateway, "Não foi possível carregar os editais")
		return
	}

	now := time.Now()
	views := make([]editalView, 0, len(editals))
	for _, edital := range editals {
		views = append(views, editalView{
			Edital: edital,
			Active: edital.IsActiveAt(now),
		})
	}

	writeSuccess(w, views)
}

func (h *Handler) ActiveEdital(w http.ResponseWriter, r *http.Request) {
	edital, err := h.status.ActiveEdital(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to find active edital")
		writeError(w, http.StatusBadGateway, "Não foi possível carregar os editais")
		return
	}

	if edital == nil {
		writeError(w, http.StatusNotFound, "Nenhum edital com janela de submissão aberta")
		return
	}

	writeSuccess(w, edital)
}
