package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/trampolim2024/trampolim-portal/internal/models"
	"github.com/trampolim2024/trampolim-portal/internal/service/integration"
	"github.com/trampolim2024/trampolim-portal/internal/session"
)

// ProjectState é a união etiquetada que substitui o emaranhado de flags
// booleanas do front original: um único valor decide o que a interface mostra,
// e combinações impossíveis (carregando + erro) deixam de existir.
type ProjectState string

const (
	StateLoading        ProjectState = "loading"
	StateNoActiveEdital ProjectState = "no_active_edital"
	StateNotSubmitted   ProjectState = "not_submitted"
	StateSubmitted      ProjectState = "submitted"
	StateError          ProjectState = "error"
)

type Resolution struct {
	State   ProjectState             `json:"state"`
	Edital  *models.Edital           `json:"edital,omitempty"`
	Project *models.SubmittedProject `json:"project,omitempty"`
	Message string                   `json:"message,omitempty"`
}

const (
	msgSessionExpired = "Sua sessão expirou. Entre novamente para continuar."
	msgAccessDenied   = "Você não tem permissão para acessar este edital."
	msgGenericFetch   = "Não foi possível carregar sua submissão. Tente novamente em instantes."
)

type StatusService interface {
	// Resolve busca o projeto do usuário no edital e classifica o
	// resultado. Cada chamada é uma consulta nova, sem cache.
	Resolve(ctx context.Context, editalID string) Resolution
	// ResolveActive primeiro determina o edital com janela aberta.
	ResolveActive(ctx context.Context) Resolution
	ActiveEdital(ctx context.Context) (*models.Edital, error)
}

type statusService struct {
	projectClient integration.ProjectClient
	editalClient  integration.EditalClient
	session       *session.Store
	logger        zerolog.Logger
	now           func() time.Time
}

type StatusOption func(*statusService)

// WithClock injeta o relógio usado para derivar o edital ativo.
func WithClock(now func() time.Time) StatusOption {
	return func(s *statusService) {
		s.now = now
	}
}

func NewStatusService(
	projectClient integration.ProjectClient,
	editalClient integration.EditalClient,
	sessionStore *session.Store,
	logger zerolog.Logger,
	options ...StatusOption,
) StatusService {
	s := &statusService{
		projectClient: projectClient,
		editalClient:  editalClient,
		session:       sessionStore,
		logger:        logger,
		now:           time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *statusService) Resolve(ctx context.Context, editalID string) Resolution {
	token, err := s.session.Token(ctx)
	if err != nil {
		return Resolution{State: StateError, Message: msgSessionExpired}
	}

	project, err := s.projectClient.GetMyProject(ctx, editalID, token)

	switch {
	case err == nil:
		return Resolution{State: StateSubmitted, Project: project}

	case errors.Is(err, integration.ErrNotFound):
		// Ausência de projeto é um estado válido: o usuário ainda não
		// submeteu neste edital.
		return Resolution{State: StateNotSubmitted}

	case errors.Is(err, integration.ErrUnauthorized):
		if clearErr := s.session.Clear(ctx); clearErr != nil {
			s.logger.Error().Err(clearErr).Msg("Failed to clear session after 401")
		}
		return Resolution{State: StateError, Message: msgSessionExpired}

	case errors.Is(err, integration.ErrForbidden):
		return Resolution{State: StateError, Message: msgAccessDenied}
	}

	var apiErr *integration.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return Resolution{State: StateError, Message: apiErr.Message}
	}

	s.logger.Error().Err(err).Str("edital_id", editalID).Msg("Failed to resolve project status")
	return Resolution{State: StateError, Message: msgGenericFetch}
}

func (s *statusService) ResolveActive(ctx context.Context) Resolution {
	edital, err := s.ActiveEdital(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list editals")
		return Resolution{State: StateError, Message: msgGenericFetch}
	}
	if edital == nil {
		return Resolution{State: StateNoActiveEdital}
	}

	resolution := s.Resolve(ctx, edital.ID)
	resolution.Edital = edital
	return resolution
}

func (s *statusService) ActiveEdital(ctx context.Context) (*models.Edital, error) {
	editals, err := s.editalClient.ListEditals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list editals: %w", err)
	}

	return models.ActiveEdital(editals, s.now()), nil
}
