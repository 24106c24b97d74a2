package httpd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/trampolim2024/trampolim-portal/internal/form"
	"github.com/trampolim2024/trampolim-portal/internal/service"
	"github.com/trampolim2024/trampolim-portal/internal/service/integration"
	"github.com/trampolim2024/trampolim-portal/internal/session"
	"github.com/trampolim2024/trampolim-portal/internal/storage"
)

type Handler struct {
	authClient   integration.AuthClient
	editalClient integration.EditalClient
	status       service.StatusService
	submission   service.SubmissionService
	session      *session.Store
	drafts       *form.Registry
	flags        *storage.PendingFlags
	logger       zerolog.Logger
}

func NewHandler(
	authClient integration.AuthClient,
	editalClient integration.EditalClient,
	status service.StatusService,
	submission service.SubmissionService,
	sessionStore *session.Store,
	drafts *form.Registry,
	flags *storage.PendingFlags,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authClient:   authClient,
		editalClient: editalClient,
		status:       status,
		submission:   submission,
		session:      sessionStore,
		drafts:       drafts,
		flags:        flags,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	router.Get("/previews/{token}", h.ServePreview)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/session", func(r chi.Router) {
			r.Post("/", h.Login)
			r.Get("/", h.CurrentUser)
			r.Delete("/", h.Logout)
		})

		api.Get("/editals", h.ListEditals)
		api.Get("/editals/active", h.ActiveEdital)
		api.Get("/submission/state", h.ActiveSubmissionState)

		api.Route("/editals/{editalID}", func(r chi.Router) {
			r.Get("/state", h.SubmissionState)
			r.Post("/submission", h.SubmitProject)

			r.Route("/draft", func(d chi.Router) {
				d.Put("/fields", h.SetDraftField)
				d.Put("/technologies", h.SetDraftTechnologies)
				d.Post("/pitch-video", h.SetDraftPitchVideo)
				d.Post("/members", h.AddDraftMember)
				d.Put("/members/{index}", h.SetDraftMemberField)
				d.Delete("/members/{index}", h.RemoveDraftMember)
				d.Post("/members/{index}/photo", h.SetDraftMemberPhoto)
			})
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "trampolim-portal",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	path, ok := h.drafts.Previews().Path(token)
	if !ok {
		writeError(w, http.StatusNotFound, "Preview not found")
		return
	}

	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}
