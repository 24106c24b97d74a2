package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/trampolim2024/trampolim-portal/internal/models"
	"github.com/trampolim2024/trampolim-portal/internal/storage"
)

const (
	keyToken = "auth:token"
	keyUser  = "auth:user"
)

// ErrNotAuthenticated sinaliza ausência de sessão válida.
var ErrNotAuthenticated = fmt.Errorf("not authenticated")

// Store guarda o token e o usuário autenticado no estado local. O token é
// emitido e validado pelo backend; aqui só inspecionamos a claim exp para não
// enviar requisições fadadas a 401.
type Store struct {
	kv     storage.KeyValueStore
	logger zerolog.Logger
	now    func() time.Time
}

func New(kv storage.KeyValueStore, logger zerolog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Store) Save(ctx context.Context, token string, user models.User) error {
	if err := s.kv.Set(ctx, keyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.kv.Set(ctx, keyUser, string(data)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Session saved")
	return nil
}

// Token devolve o token armazenado; token expirado conta como sessão ausente.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, ok, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if !ok || token == "" {
		return "", ErrNotAuthenticated
	}

	if s.expired(token) {
		s.logger.Warn().Msg("Stored token expired, clearing session")
		if err := s.Clear(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Failed to clear expired session")
		}
		return "", ErrNotAuthenticated
	}

	return token, nil
}

func (s *Store) User(ctx context.Context) (*models.User, error) {
	data, ok, err := s.kv.Get(ctx, keyUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if !ok {
		return nil, ErrNotAuthenticated
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &user, nil
}

// Clear apaga token e usuário. É o único efeito colateral permitido ao
// resolvedor de status: um 401 invalida todo o restante do estado do cliente.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyToken); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if err := s.kv.Delete(ctx, keyUser); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// expired faz um parse sem verificação de assinatura: a assinatura pertence ao
// backend, aqui interessa apenas a claim exp. Token sem exp não expira
// localmente.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(s.now())
}
