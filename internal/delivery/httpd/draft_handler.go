package httpd

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trampolim2024/trampolim-portal/internal/form"
	"github.com/trampolim2024/trampolim-portal/internal/models"
)

const maxUploadSize = 64 << 20

func (h *Handler) draftFor(r *http.Request) (*form.Draft, bool) {
	editalID := chi.URLParam(r, "editalID")
	if editalID == "" {
		return nil, false
	}
	return h.drafts.Draft(editalID), true
}

func (h *Handler) SetDraftField(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.draftFor(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Edital ID is required")
		return
	}

	var req struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := draft.SetField(req.Name, req.Value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeSuccess(w, nil)
}

func (h *Handler) SetDraftTechnologies(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.draftFor(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Edital ID is required")
		return
	}

	var req struct {
		Technologies []string `json:"technologies"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft.SetTechnologies(req.Technologies)
	writeSuccess(w, nil)
}

func (h *Handler) SetDraftPitchVideo(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.draftFor(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Edital ID is required")
		return
	}

	att, err := readUpload(r, "video")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft.SetPitchVideo(att)
	writeSuccess(w, nil)
}

func (h *Handler) AddDraftMember(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.draftFor(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Edital ID is required")
		return
	}

	added := draft.AddMember()
	writeSuccess(w, map[string]interface{}{
		"added":   added,
		"members": len(draft.Submission().Members),
	})
}

func (h *Handler) SetDraftMemberField(w http.ResponseWriter, r *http.Request) {
	draft, index, ok := h.draftMember(w, r)
	if !ok {
		return
	}

	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := draft.SetMemberField(index, req.Field, req.Value); err != nil {
		h.writeDraftError(w, err)
		return
	}

	writeSuccess(w, nil)
}

func (h *Handler) RemoveDraftMember(w http.ResponseWriter, r *http.Request) {
	draft, index, ok := h.draftMember(w, r)
	if !ok {
		return
	}

	if err := draft.RemoveMember(index); err != nil {
		h.writeDraftError(w, err)
		return
	}

	writeSuccess(w, nil)
}

func (h *Handler) SetDraftMemberPhoto(w http.ResponseWriter, r *http.Request) {
	draft, index, ok := h.draftMember(w, r)
	if !ok {
		return
	}

	att, err := readUpload(r, "photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := draft.SetMemberPhoto(index, att)
	if err != nil {
		h.writeDraftError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"preview": "/previews/" + token,
	})
}

func (h *Handler) draftMember(w http.ResponseWriter, r *http.Request) (*form.Draft, int, bool) {
	draft, ok := h.draftFor(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Edital ID is required")
		return nil, 0, false
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid member index")
		return nil, 0, false
	}

	return draft, index, true
}

func (h *Handler) writeDraftError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, form.ErrLeaderRemoval):
		writeError(w, http.StatusBadRequest, "O líder não pode ser removido")
	case errors.Is(err, form.ErrNoSuchMember):
		writeError(w, http.StatusNotFound, "Integrante não encontrado")
	case errors.Is(err, form.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Draft operation failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func readUpload(r *http.Request, field string) (*models.Attachment, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, errors.New("Failed to parse form data")
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, errors.New(field + " is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("Failed to read file")
	}

	return &models.Attachment{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}
