package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

type ProjectClient interface {
	CreateProject(ctx context.Context, editalID, token string, submission *models.ProjectSubmission) (*models.CreateProjectResponse, error)
	GetMyProject(ctx context.Context, editalID, token string) (*models.SubmittedProject, error)
}

type projectClient struct {
	baseURL    string
	timeout    time.Duration
	retryCount int
	retryDelay time.Duration
	client     *http.Client
	logger     zerolog.Logger
}

func NewProjectClient(baseURL string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) ProjectClient {
	return &projectClient{
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

// CreateProject envia a submissão como multipart/form-data. A requisição não é
// repetida automaticamente: criação não é idempotente do lado do backend; o
// cabeçalho Idempotency-Key fica como defesa extra contra duplo envio.
func (c *projectClient) CreateProject(ctx context.Context, editalID, token string, submission *models.ProjectSubmission) (*models.CreateProjectResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := encodeSubmission(writer, editalID, submission); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/projects", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit project: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, classifyResponse(resp)
	}

	var createResp models.CreateProjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&createResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info().
		Str("project_id", createResp.ID).
		Str("edital_id", editalID).
		Msg("Project submitted")

	return &createResp, nil
}

func (c *projectClient) GetMyProject(ctx context.Context, editalID, token string) (*models.SubmittedProject, error) {
	url := fmt.Sprintf("%s/projects/my/%s", c.baseURL, editalID)

	var lastErr error

	for i := 0; i <= c.retryCount; i++ {
		if i > 0 {
			c.logger.Warn().Int("attempt", i).Msg("Retrying project fetch")
			time.Sleep(c.retryDelay * time.Duration(i))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to get project: %w", err)
			continue
		}

		if isSuccess(resp.StatusCode) {
			var project models.SubmittedProject
			if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
				resp.Body.Close()
				lastErr = fmt.Errorf("failed to decode response: %w", err)
				continue
			}
			resp.Body.Close()

			c.logger.Debug().
				Str("project_id", project.ID).
				Str("status", project.Status.String()).
				Msg("Got project")

			return &project, nil
		}

		// 401/403/404 são respostas definitivas, não falhas transitórias.
		if resp.StatusCode < http.StatusInternalServerError {
			err := classifyResponse(resp)
			resp.Body.Close()
			return nil, err
		}

		lastErr = classifyResponse(resp)
		resp.Body.Close()
	}

	return nil, fmt.Errorf("failed to get project after %d attempts: %w", c.retryCount+1, lastErr)
}

// encodeSubmission escreve os campos na forma que a API espera: escalares como
// campos de formulário, tecnologias como array JSON, líder e integrantes como
// campos indexados com a foto em parte binária, e o pitch como link OU vídeo,
// nunca os dois.
func encodeSubmission(writer *multipart.Writer, editalID string, s *models.ProjectSubmission) error {
	fields := map[string]string{
		"editalId":               editalID,
		"projectName":            s.Name,
		"stage":                  s.Stage.String(),
		"description":            s.Description,
		"innovationDifferential": s.InnovationDifferential,
		"businessModel":          s.BusinessModel,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	technologies, err := json.Marshal(s.Technologies)
	if err != nil {
		return fmt.Errorf("failed to encode technologies: %w", err)
	}
	if err := writer.WriteField("technologies", string(technologies)); err != nil {
		return fmt.Errorf("failed to write technologies: %w", err)
	}

	if s.PitchLink != "" {
		if err := writer.WriteField("pitchLink", s.PitchLink); err != nil {
			return fmt.Errorf("failed to write pitch link: %w", err)
		}
	} else if s.PitchVideo != nil {
		if err := writeFilePart(writer, "pitchVideo", s.PitchVideo); err != nil {
			return err
		}
	}

	if err := writeMember(writer, "leader", &s.Leader); err != nil {
		return err
	}
	for i := range s.Members {
		prefix := fmt.Sprintf("members[%d]", i)
		if err := writeMember(writer, prefix, &s.Members[i]); err != nil {
			return err
		}
	}

	return nil
}

func writeMember(writer *multipart.Writer, prefix string, member *models.TeamMember) error {
	if err := writer.WriteField(prefix+"[name]", member.Name); err != nil {
		return fmt.Errorf("failed to write member name: %w", err)
	}
	if err := writer.WriteField(prefix+"[cpf]", models.NormalizeCPF(member.CPF)); err != nil {
		return fmt.Errorf("failed to write member cpf: %w", err)
	}
	if member.Photo != nil {
		if err := writeFilePart(writer, prefix+"[photo]", member.Photo); err != nil {
			return err
		}
	}
	return nil
}

// writeFilePart cria a parte binária preservando o content type original do
// arquivo, que o CreateFormFile padrão descartaria.
func writeFilePart(writer *multipart.Writer, field string, att *models.Attachment) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(att.FileName),
	))
	header.Set("Content-Type", att.ContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create part %s: %w", field, err)
	}

	if _, err := io.Copy(part, bytes.NewReader(att.Data)); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
