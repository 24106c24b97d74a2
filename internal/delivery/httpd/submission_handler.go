package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trampolim2024/trampolim-portal/internal/service"
	"github.com/trampolim2024/trampolim-portal/internal/view"
)

// SubmissionState resolve o estado do edital e devolve o view model que a
// interface renderiza. Cada chamada é uma consulta nova ao backend.
func (h *Handler) SubmissionState(w http.ResponseWriter, r *http.Request) {
	editalID := chi.URLParam(r, "editalID")
	if editalID == "" {
		writeError(w, http.StatusBadRequest, "Edital ID is required")
		return
	}

	resolution := h.status.Resolve(r.Context(), editalID)
	h.renderState(w, r, editalID, resolution)
}

// ActiveSubmissionState é o equivalente da página inicial de submissão:
// descobre o edital aberto e resolve o estado nele.
func (h *Handler) ActiveSubmissionState(w http.ResponseWriter, r *http.Request) {
	resolution := h.status.ResolveActive(r.Context())

	editalID := ""
	if resolution.Edital != nil {
		editalID = resolution.Edital.ID
	}

	h.renderState(w, r, editalID, resolution)
}

func (h *Handler) renderState(w http.ResponseWriter, r *http.Request, editalID string, resolution service.Resolution) {
	var (
		pending    bool
		formErrors []string
	)

	if editalID != "" {
		var err error
		pending, err = h.flags.IsSet(r.Context(), editalID)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read pending flag")
		}

		// A leitura confirmou o projeto: a pendência gravada na submissão
		// cumpriu o papel e é encerrada aqui, inclusive após um reinício.
		if pending && resolution.State == service.StateSubmitted {
			if err := h.flags.Clear(r.Context(), editalID); err != nil {
				h.logger.Error().Err(err).Msg("Failed to clear pending flag")
			}
			pending = false
		}

		formErrors = h.drafts.Draft(editalID).ValidationErrors()
	}

	writeSuccess(w, view.Render(resolution, formErrors, pending))
}

// SubmitProject envia o rascunho do edital: valida, cria o projeto no backend
// e aguarda a confirmação pelo caminho de leitura.
func (h *Handler) SubmitProject(w http.ResponseWriter, r *http.Request) {
	editalID := chi.URLParam(r, "editalID")
	if editalID == "" {
		writeError(w, http.StatusBadRequest, "Edital ID is required")
		return
	}

	draft := h.drafts.Draft(editalID)
	outcome := h.submission.Submit(r.Context(), editalID, draft.Submission())

	switch outcome.Kind {
	case service.OutcomeRejected:
		draft.SetValidationErrors(outcome.Errors)
		writeJSON(w, http.StatusUnprocessableEntity, outcome)

	case service.OutcomeFailed:
		draft.SetGeneralError(outcome.Message)
		writeJSON(w, http.StatusBadGateway, outcome)

	case service.OutcomeConfirmed, service.OutcomeAcceptedUnconfirmed:
		// O formulário deu lugar à visão de enviado/pendente; o rascunho
		// e os previews não têm mais serventia.
		h.drafts.Discard(editalID)
		writeSuccess(w, outcome)

	default:
		h.logger.Error().Str("kind", string(outcome.Kind)).Msg("Unexpected submission outcome")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
