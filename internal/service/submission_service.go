package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/trampolim2024/trampolim-portal/internal/models"
	"github.com/trampolim2024/trampolim-portal/internal/service/integration"
	"github.com/trampolim2024/trampolim-portal/internal/session"
	"github.com/trampolim2024/trampolim-portal/internal/storage"
	"github.com/trampolim2024/trampolim-portal/internal/validation"
)

type OutcomeKind string

const (
	// OutcomeRejected: a validação local barrou o envio; nada foi à rede.
	OutcomeRejected OutcomeKind = "rejected"
	// OutcomeFailed: o backend recusou ou a requisição não chegou.
	OutcomeFailed OutcomeKind = "failed"
	// OutcomeConfirmed: criado e já visível no caminho de leitura.
	OutcomeConfirmed OutcomeKind = "confirmed"
	// OutcomeAcceptedUnconfirmed: criado, mas a leitura ainda não o
	// enxerga; o marcador pendente fica para um recarregamento retomar.
	OutcomeAcceptedUnconfirmed OutcomeKind = "accepted_unconfirmed"
)

type Outcome struct {
	Kind    OutcomeKind              `json:"kind"`
	Errors  []string                 `json:"errors,omitempty"`
	Message string                   `json:"message,omitempty"`
	Project *models.SubmittedProject `json:"project,omitempty"`
}

const (
	msgSubmitFailed    = "Não foi possível enviar o projeto. Tente novamente."
	msgConfirmPending  = "Projeto enviado! A confirmação ainda está pendente; recarregue a página em instantes."
	msgSubmitConfirmed = "Projeto enviado com sucesso."
	msgSubmitCancelled = "Projeto enviado. A confirmação foi interrompida e será retomada no próximo acesso."
)

// ConfirmPolicy parametriza o laço de confirmação: contagem fixa, intervalo
// fixo, sem backoff. É injetável para que os testes usem intervalo zero.
type ConfirmPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

func DefaultConfirmPolicy() ConfirmPolicy {
	return ConfirmPolicy{
		MaxAttempts: 5,
		Interval:    800 * time.Millisecond,
	}
}

type SubmissionService interface {
	Submit(ctx context.Context, editalID string, submission *models.ProjectSubmission) Outcome
}

type submissionService struct {
	projectClient integration.ProjectClient
	status        StatusService
	session       *session.Store
	flags         *storage.PendingFlags
	policy        ConfirmPolicy
	logger        zerolog.Logger
}

func NewSubmissionService(
	projectClient integration.ProjectClient,
	status StatusService,
	sessionStore *session.Store,
	flags *storage.PendingFlags,
	policy ConfirmPolicy,
	logger zerolog.Logger,
) SubmissionService {
	if policy.MaxAttempts < 1 {
		policy = DefaultConfirmPolicy()
	}

	return &submissionService{
		projectClient: projectClient,
		status:        status,
		session:       sessionStore,
		flags:         flags,
		policy:        policy,
		logger:        logger,
	}
}

// Submit executa o fluxo completo, estritamente sequencial: valida, envia o
// multipart, marca a pendência e confirma pelo caminho de leitura. O marcador
// pendente só é gravado depois da resposta de sucesso, então nunca sobra
// pendência de uma requisição que falhou.
func (s *submissionService) Submit(ctx context.Context, editalID string, submission *models.ProjectSubmission) Outcome {
	result := validation.Validate(submission)
	if !result.Valid {
		return Outcome{
			Kind:   OutcomeRejected,
			Errors: result.Errors,
		}
	}

	token, err := s.session.Token(ctx)
	if err != nil {
		return Outcome{Kind: OutcomeFailed, Message: msgSessionExpired}
	}

	_, err = s.projectClient.CreateProject(ctx, editalID, token, submission)
	if err != nil {
		return s.createFailed(ctx, editalID, err)
	}

	if err := s.flags.Set(ctx, editalID); err != nil {
		// A submissão já foi aceita; a falha ao marcar pendência não pode
		// virar erro para o usuário.
		s.logger.Error().Err(err).Str("edital_id", editalID).Msg("Failed to set pending flag")
	}

	return s.confirm(ctx, editalID)
}

func (s *submissionService) createFailed(ctx context.Context, editalID string, err error) Outcome {
	// Garante a invariante: nenhuma falha confirmada deixa pendência.
	if clearErr := s.flags.Clear(ctx, editalID); clearErr != nil {
		s.logger.Error().Err(clearErr).Msg("Failed to clear pending flag")
	}

	if errors.Is(err, integration.ErrUnauthorized) {
		if clearErr := s.session.Clear(ctx); clearErr != nil {
			s.logger.Error().Err(clearErr).Msg("Failed to clear session after 401")
		}
		return Outcome{Kind: OutcomeFailed, Message: msgSessionExpired}
	}

	var apiErr *integration.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return Outcome{Kind: OutcomeFailed, Message: apiErr.Message}
	}

	s.logger.Error().Err(err).Str("edital_id", editalID).Msg("Failed to submit project")
	return Outcome{Kind: OutcomeFailed, Message: msgSubmitFailed}
}

// confirm percorre o laço limitado de confirmação: tentativas sequenciais com
// espera fixa entre elas, parando na primeira leitura que enxerga o projeto.
func (s *submissionService) confirm(ctx context.Context, editalID string) Outcome {
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		resolution := s.status.Resolve(ctx, editalID)
		if resolution.State == StateSubmitted {
			if err := s.flags.Clear(ctx, editalID); err != nil {
				s.logger.Error().Err(err).Msg("Failed to clear pending flag")
			}

			s.logger.Info().
				Str("edital_id", editalID).
				Int("attempt", attempt).
				Msg("Submission confirmed")

			return Outcome{
				Kind:    OutcomeConfirmed,
				Message: msgSubmitConfirmed,
				Project: resolution.Project,
			}
		}

		if attempt == s.policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			// Interrupção não é falha: a criação já foi aceita e o
			// marcador pendente retoma a confirmação depois.
			return Outcome{Kind: OutcomeAcceptedUnconfirmed, Message: msgSubmitCancelled}
		case <-time.After(s.policy.Interval):
		}
	}

	s.logger.Warn().
		Str("edital_id", editalID).
		Int("attempts", s.policy.MaxAttempts).
		Msg("Submission accepted but not yet visible on read path")

	return Outcome{Kind: OutcomeAcceptedUnconfirmed, Message: msgConfirmPending}
}
