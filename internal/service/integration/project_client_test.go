package integration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

func testSubmission() *models.ProjectSubmission {
	return &models.ProjectSubmission{
		Name:                   "Projeto Teste",
		Stage:                  models.StageMVP,
		Description:            "descrição",
		InnovationDifferential: "diferencial",
		BusinessModel:          "modelo",
		Technologies:           []string{"Go", "SQLite"},
		PitchLink:              "https://youtu.be/xyz",
		Leader: models.TeamMember{
			Name: "Líder",
			CPF:  "123.456.789-09",
			Photo: &models.Attachment{
				FileName:    "lider.jpg",
				ContentType: "image/jpeg",
				Size:        3,
				Data:        []byte("jpg"),
			},
		},
		Members: []models.TeamMember{
			{
				Name: "Integrante",
				CPF:  "98765432100",
				Photo: &models.Attachment{
					FileName:    "integrante.png",
					ContentType: "image/png",
					Size:        3,
					Data:        []byte("png"),
				},
			},
		},
	}
}

func newProjectClient(url string) ProjectClient {
	return NewProjectClient(url, 5*time.Second, 0, 0, zerolog.Nop())
}

func TestProjectClient_CreateProject_EncodesMultipart(t *testing.T) {
	var (
		gotAuth   string
		gotIdem   string
		gotFields map[string]string
		gotFiles  map[string]string // field -> content type
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/projects", r.URL.Path)

		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("Idempotency-Key")

		require.NoError(t, r.ParseMultipartForm(64<<20))

		gotFields = make(map[string]string)
		for name, values := range r.MultipartForm.Value {
			gotFields[name] = values[0]
		}

		gotFiles = make(map[string]string)
		for name, headers := range r.MultipartForm.File {
			gotFiles[name] = headers[0].Header.Get("Content-Type")
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.CreateProjectResponse{ID: "proj-1", Status: "pending"})
	}))
	defer server.Close()

	client := newProjectClient(server.URL)
	resp, err := client.CreateProject(context.Background(), "ed-1", "token-abc", testSubmission())

	require.NoError(t, err)
	assert.Equal(t, "proj-1", resp.ID)

	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.NotEmpty(t, gotIdem)

	assert.Equal(t, "ed-1", gotFields["editalId"])
	assert.Equal(t, "Projeto Teste", gotFields["projectName"])
	assert.Equal(t, "mvp", gotFields["stage"])
	assert.Equal(t, `["Go","SQLite"]`, gotFields["technologies"])
	assert.Equal(t, "https://youtu.be/xyz", gotFields["pitchLink"])

	// CPF é normalizado antes do envio
	assert.Equal(t, "12345678909", gotFields["leader[cpf]"])
	assert.Equal(t, "Integrante", gotFields["members[0][name]"])

	assert.Equal(t, "image/jpeg", gotFiles["leader[photo]"])
	assert.Equal(t, "image/png", gotFiles["members[0][photo]"])
	_, hasVideo := gotFiles["pitchVideo"]
	assert.False(t, hasVideo, "pitch link and video must never be sent together")
}

func TestProjectClient_CreateProject_VideoInsteadOfLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(64<<20))

		_, hasLink := r.MultipartForm.Value["pitchLink"]
		assert.False(t, hasLink)

		file, header, err := r.FormFile("pitchVideo")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "pitch.mp4", header.Filename)
		assert.Equal(t, "video/mp4", header.Header.Get("Content-Type"))

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("mp4"), content)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.CreateProjectResponse{ID: "proj-2"})
	}))
	defer server.Close()

	submission := testSubmission()
	submission.PitchLink = ""
	submission.PitchVideo = &models.Attachment{
		FileName:    "pitch.mp4",
		ContentType: "video/mp4",
		Size:        3,
		Data:        []byte("mp4"),
	}

	client := newProjectClient(server.URL)
	_, err := client.CreateProject(context.Background(), "ed-1", "token", submission)
	require.NoError(t, err)
}

func TestProjectClient_CreateProject_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.BackendError{Message: "edital encerrado"})
	}))
	defer server.Close()

	client := newProjectClient(server.URL)
	_, err := client.CreateProject(context.Background(), "ed-1", "token", testSubmission())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "edital encerrado", apiErr.Message)
}

func TestProjectClient_GetMyProject_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newProjectClient(server.URL)
			_, err := client.GetMyProject(context.Background(), "ed-1", "token")

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProjectClient_GetMyProject_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/my/ed-7", r.URL.Path)
		assert.Equal(t, "Bearer tk", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(models.SubmittedProject{
			ID:       "proj-1",
			EditalID: "ed-7",
			Name:     "Projeto",
			Status:   models.StatusApproved,
		})
	}))
	defer server.Close()

	client := newProjectClient(server.URL)
	project, err := client.GetMyProject(context.Background(), "ed-7", "tk")

	require.NoError(t, err)
	assert.Equal(t, "proj-1", project.ID)
	assert.Equal(t, models.StatusApproved, project.Status)
}

func TestProjectClient_GetMyProject_RetriesOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(models.SubmittedProject{ID: "proj-1"})
	}))
	defer server.Close()

	client := NewProjectClient(server.URL, 5*time.Second, 3, 0, zerolog.Nop())
	project, err := client.GetMyProject(context.Background(), "ed-1", "tk")

	require.NoError(t, err)
	assert.Equal(t, "proj-1", project.ID)
	assert.Equal(t, 3, calls)
}

func TestProjectClient_GetMyProject_NotFoundIsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewProjectClient(server.URL, 5*time.Second, 3, 0, zerolog.Nop())
	_, err := client.GetMyProject(context.Background(), "ed-1", "tk")

	require.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, calls)
}
