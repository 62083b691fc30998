// Пакет service — бизнес-логика Auth Module.
// auth.go — аутентификация и проверка тикетов.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bigkaa/goartstore/auth-module/internal/domain/role"
	"github.com/bigkaa/goartstore/auth-module/internal/repository"
)

// LoginResult — результат проверки учётных данных.
// При неудаче причина не раскрывается: неверный логин, неверный пароль
// и заблокированный пользователь внешне неотличимы.
type LoginResult struct {
	IsAuth bool
	Ticket string
}

// AuthResult — результат проверки тикета.
// Code — HTTP-статус решения: 200, 401 или 403.
type AuthResult struct {
	Code      int
	Message   string
	SessionID string
	UserID    string
}

// AuthService — аутентификация по паролю и авторизация по тикету.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
// sessionTTL — скользящее окно создаваемых сессий.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger.With(slog.String("component", "auth_service")),
	}
}

// Login проверяет учётные данные и при успехе открывает сессию.
// Неверный логин, неверный пароль и заблокированный пользователь дают
// одинаковый отрицательный результат без ошибки.
func (s *AuthService) Login(ctx context.Context, username, password, sourceIP string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("Неудачная попытка входа: пользователь не найден",
				slog.String("username", username))
			observeLogin(false)
			return &LoginResult{IsAuth: false}, nil
		}
		return nil, fmt.Errorf("проверка учётных данных: %w", err)
	}

	if !user.IsActive || !VerifyPassword(password, user.Salt, user.PasswordHash) {
		s.logger.Info("Неудачная попытка входа",
			slog.String("username", username))
		observeLogin(false)
		return &LoginResult{IsAuth: false}, nil
	}

	session, err := s.sessions.Create(ctx, user.ID, int(s.sessionTTL.Seconds()), sourceIP)
	if err != nil {
		return nil, fmt.Errorf("создание сессии: %w", err)
	}

	s.logger.Info("Пользователь вошёл в систему",
		slog.String("user_id", user.ID),
		slog.String("session_id", session.ID),
	)

	observeLogin(true)
	return &LoginResult{IsAuth: true, Ticket: session.Ticket}, nil
}

// CheckTicket проверяет тикет и принимает решение о доступе.
//
// Порядок проверок строго фиксирован: существование сессии, её
// активность, существование и активность пользователя, пересечение
// ролей. Пустой требуемый набор ролей означает «достаточно живой
// сессии» — роли пользователя при этом даже не запрашиваются.
func (s *AuthService) CheckTicket(ctx context.Context, ticket string, required []role.Role) (*AuthResult, error) {
	result, err := s.checkTicket(ctx, ticket, required)
	if err == nil {
		observeTicketCheck(result.Code)
	}
	return result, err
}

func (s *AuthService) checkTicket(ctx context.Context, ticket string, required []role.Role) (*AuthResult, error) {
	session, err := s.sessions.GetByTicket(ctx, ticket)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &AuthResult{Code: http.StatusUnauthorized}, nil
		}
		return nil, fmt.Errorf("поиск сессии по тикету: %w", err)
	}

	if !session.IsActive(time.Now()) {
		return &AuthResult{Code: http.StatusUnauthorized, Message: "Session expired."}, nil
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &AuthResult{Code: http.StatusUnauthorized, Message: "User not found or blocked."}, nil
		}
		return nil, fmt.Errorf("поиск владельца сессии: %w", err)
	}
	if !user.IsActive {
		return &AuthResult{Code: http.StatusUnauthorized, Message: "User not found or blocked."}, nil
	}

	if len(required) > 0 {
		userRoles, err := s.users.GetRoles(ctx, session.UserID)
		if err != nil {
			return nil, fmt.Errorf("получение ролей пользователя: %w", err)
		}
		if !role.Intersects(userRoles, required) {
			return &AuthResult{Code: http.StatusForbidden, Message: "Forbidden"}, nil
		}
	}

	return &AuthResult{Code: http.StatusOK, SessionID: session.ID, UserID: user.ID}, nil
}

// Registrate — CheckTicket с продлением: успешно проверенная сессия
// получает новое окно жизни от текущего момента. Отказ в доступе
// сессию не продлевает.
func (s *AuthService) Registrate(ctx context.Context, ticket string, required []role.Role) (*AuthResult, error) {
	result, err := s.CheckTicket(ctx, ticket, required)
	if err != nil {
		return nil, err
	}

	if result.Code == http.StatusOK && result.SessionID != "" {
		if _, err := s.sessions.Prolong(ctx, result.SessionID); err != nil {
			return nil, fmt.Errorf("продление сессии: %w", err)
		}
	}

	return result, nil
}
