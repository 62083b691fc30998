// sessions.go — сервис администрирования сессий.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bigkaa/goartstore/auth-module/internal/domain/model"
	"github.com/bigkaa/goartstore/auth-module/internal/repository"
)

// SessionService — просмотр и принудительное закрытие сессий.
type SessionService struct {
	sessions repository.SessionRepository
	logger   *slog.Logger
}

// NewSessionService создаёт сервис сессий.
func NewSessionService(sessions repository.SessionRepository, logger *slog.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "sessions_service")),
	}
}

// GetActive возвращает все активные сессии по всем пользователям.
func (s *SessionService) GetActive(ctx context.Context) ([]*model.Session, error) {
	return s.sessions.ListActive(ctx, nil)
}

// Get возвращает сессию по UUID независимо от её активности.
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

// Close принудительно закрывает сессию. Идемпотентна.
func (s *SessionService) Close(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessions.Close(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.logger.Info("Сессия закрыта",
		slog.String("session_id", id),
		slog.String("user_id", session.UserID),
	)
	return session, nil
}

// CloseAllForUser закрывает все активные сессии пользователя
// и возвращает закрытые. Если активных нет — пустой список.
func (s *SessionService) CloseAllForUser(ctx context.Context, userID string) ([]*model.Session, error) {
	closed, err := s.sessions.CloseAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Сессии пользователя закрыты",
		slog.String("user_id", userID),
		slog.Int("closed", len(closed)),
	)
	return closed, nil
}
