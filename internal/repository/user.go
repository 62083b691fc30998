package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/goartstore/auth-module/internal/domain/model"
	"github.com/bigkaa/goartstore/auth-module/internal/domain/role"
)

// UserRepository — интерфейс доступа к таблицам users и user_roles.
type UserRepository interface {
	// Create создаёт нового пользователя.
	Create(ctx context.Context, u *model.User) error
	// GetByID возвращает пользователя по UUID.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByUsername возвращает пользователя по точному совпадению имени
	// (с учётом регистра).
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByEmail возвращает пользователя по точному совпадению email
	// (с учётом регистра).
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update обновляет email и имя пользователя.
	Update(ctx context.Context, id, email, username string) (*model.User, error)
	// UpdateActive меняет флаг активности (блокировка/разблокировка).
	UpdateActive(ctx context.Context, id string, isActive bool) (*model.User, error)
	// ChangePassword записывает новый хэш пароля и соль.
	ChangePassword(ctx context.Context, id, passwordHash, salt string) error
	// GetRoles возвращает роли пользователя. Пустой срез — не ошибка.
	GetRoles(ctx context.Context, userID string) ([]role.Role, error)
	// SetRoles приводит набор ролей пользователя к желаемому.
	// Если текущий набор уже совпадает с желаемым — ни одной записи в БД.
	SetRoles(ctx context.Context, userID string, desired []role.Role) error
}

// userRepo — реализация UserRepository.
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, is_active, email, username, password_hash, salt, created_at, updated_at`

// scanUser сканирует строку результата в модель User.
func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID, &u.IsActive, &u.Email, &u.Username,
		&u.PasswordHash, &u.Salt, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, is_active, email, username, password_hash, salt)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		u.ID, u.IsActive, u.Email, u.Username, u.PasswordHash, u.Salt,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: пользователь с таким именем или email уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя по имени: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя по email: %w", err)
	}
	return u, nil
}

func (r *userRepo) Update(ctx context.Context, id, email, username string) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET email = $2, username = $3, updated_at = now()
		WHERE id = $1
		RETURNING %s`, userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, query, id, email, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: имя или email уже заняты", ErrConflict)
		}
		return nil, fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	return u, nil
}

func (r *userRepo) UpdateActive(ctx context.Context, id string, isActive bool) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, query, id, isActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка изменения активности пользователя: %w", err)
	}
	return u, nil
}

func (r *userRepo) ChangePassword(ctx context.Context, id, passwordHash, salt string) error {
	query := `
		UPDATE users
		SET password_hash = $2, salt = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, passwordHash, salt)
	if err != nil {
		return fmt.Errorf("ошибка смены пароля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) GetRoles(ctx context.Context, userID string) ([]role.Role, error) {
	rows, err := r.db.Query(ctx,
		`SELECT role_id FROM user_roles WHERE user_id = $1 ORDER BY role_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ролей пользователя: %w", err)
	}
	defer rows.Close()

	var result []role.Role
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования роли: %w", err)
		}
		result = append(result, role.Role(id))
	}
	return result, rows.Err()
}

// SetRoles — согласующая запись: удаляются только лишние роли, добавляются
// только недостающие. Совпадающий набор не порождает ни одного запроса
// на запись и не трогает updated_at пользователя.
func (r *userRepo) SetRoles(ctx context.Context, userID string, desired []role.Role) error {
	current, err := r.GetRoles(ctx, userID)
	if err != nil {
		return err
	}

	toRemove, toAdd := role.Diff(current, desired)
	if len(toRemove) == 0 && len(toAdd) == 0 {
		return nil
	}

	if len(toRemove) > 0 {
		ids := make([]int, len(toRemove))
		for i, rl := range toRemove {
			ids[i] = int(rl)
		}
		if _, err := r.db.Exec(ctx,
			`DELETE FROM user_roles WHERE user_id = $1 AND role_id = ANY($2)`, userID, ids); err != nil {
			return fmt.Errorf("ошибка удаления ролей: %w", err)
		}
	}

	for _, rl := range toAdd {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, int(rl)); err != nil {
			return fmt.Errorf("ошибка добавления роли: %w", err)
		}
	}
	return nil
}
