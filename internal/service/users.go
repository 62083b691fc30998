// users.go — сервис управления пользователями и их ролями.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/auth-module/internal/domain/model"
	"github.com/bigkaa/goartstore/auth-module/internal/domain/role"
	"github.com/bigkaa/goartstore/auth-module/internal/repository"
)

// UserService — управление пользователями: создание, обновление,
// блокировка, роли, смена пароля.
type UserService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	logger   *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "users_service")),
	}
}

// Get возвращает пользователя по UUID.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByName возвращает пользователя по имени.
func (s *UserService) GetByName(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByEmail возвращает пользователя по email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create создаёт пользователя: генерирует соль, хэширует пароль.
// Новый пользователь активен и не имеет ролей.
func (s *UserService) Create(ctx context.Context, email, username, password string) (*model.User, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.NewString(),
		IsActive:     true,
		Email:        email,
		Username:     username,
		PasswordHash: HashPassword(password, salt),
		Salt:         salt,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.logger.Info("Пользователь создан",
		slog.String("user_id", u.ID),
		slog.String("username", u.Username),
	)
	return u, nil
}

// Update обновляет email и имя пользователя.
func (s *UserService) Update(ctx context.Context, id, email, username string) (*model.User, error) {
	u, err := s.users.Update(ctx, id, email, username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrConflict
		}
		return nil, err
	}
	return u, nil
}

// UpdateActive блокирует или разблокирует пользователя.
// Блокировка не закрывает активные сессии, но и блокированный
// пользователь не пройдёт проверку тикета.
func (s *UserService) UpdateActive(ctx context.Context, id string, isActive bool) (*model.User, error) {
	u, err := s.users.UpdateActive(ctx, id, isActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.logger.Info("Активность пользователя изменена",
		slog.String("user_id", id),
		slog.Bool("is_active", isActive),
	)
	return u, nil
}

// ChangePassword меняет пароль со свежей солью и закрывает все
// активные сессии пользователя: старый тикет после смены пароля
// ни одной проверки не пройдёт.
func (s *UserService) ChangePassword(ctx context.Context, id, newPassword string) error {
	salt, err := GenerateSalt()
	if err != nil {
		return err
	}

	if err := s.users.ChangePassword(ctx, id, HashPassword(newPassword, salt), salt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	closed, err := s.sessions.CloseAllForUser(ctx, id)
	if err != nil {
		return fmt.Errorf("закрытие сессий после смены пароля: %w", err)
	}

	s.logger.Info("Пароль изменён, сессии закрыты",
		slog.String("user_id", id),
		slog.Int("closed_sessions", len(closed)),
	)
	return nil
}

// GetRoles возвращает роли пользователя.
func (s *UserService) GetRoles(ctx context.Context, id string) ([]role.Role, error) {
	return s.users.GetRoles(ctx, id)
}

// SetRoles приводит набор ролей пользователя к желаемому.
// Каждое значение проверяется на принадлежность перечню ролей.
func (s *UserService) SetRoles(ctx context.Context, id string, desired []role.Role) error {
	for _, r := range desired {
		if !r.IsValid() {
			return fmt.Errorf("%w: %d", ErrInvalidRole, r)
		}
	}

	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.users.SetRoles(ctx, id, desired); err != nil {
		return err
	}

	s.logger.Info("Роли пользователя обновлены",
		slog.String("user_id", id),
		slog.Int("roles", len(desired)),
	)
	return nil
}

// GetSessions возвращает сессии пользователя:
// только активные или все, включая закрытые.
func (s *UserService) GetSessions(ctx context.Context, id string, onlyActive bool) ([]*model.Session, error) {
	if onlyActive {
		return s.sessions.ListActive(ctx, &id)
	}
	return s.sessions.ListByUser(ctx, id)
}
