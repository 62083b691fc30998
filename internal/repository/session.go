package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/goartstore/auth-module/internal/domain/model"
)

// SessionRepository — интерфейс доступа к таблице sessions.
// Вся арифметика времени (истечение, продление, закрытие) выполняется
// на стороне PostgreSQL через now(): единые часы для всех реплик сервиса.
type SessionRepository interface {
	// Create создаёт активную сессию со свежим тикетом.
	Create(ctx context.Context, userID string, slidingWindowSeconds int, sourceIP string) (*model.Session, error)
	// GetByID возвращает сессию по UUID независимо от её активности.
	GetByID(ctx context.Context, id string) (*model.Session, error)
	// GetByTicket возвращает сессию по точному совпадению тикета.
	// Некорректный формат тикета не отличим от отсутствующего — ErrNotFound.
	GetByTicket(ctx context.Context, ticket string) (*model.Session, error)
	// Prolong сдвигает истечение активной сессии на её скользящее окно
	// от текущего момента. Для неактивной сессии ничего не меняет
	// и возвращает false.
	Prolong(ctx context.Context, id string) (bool, error)
	// Close переводит истечение сессии в прошлое. Идемпотентна:
	// повторное закрытие не ошибка.
	Close(ctx context.Context, id string) (*model.Session, error)
	// CloseAllForUser закрывает все активные сессии пользователя и
	// возвращает закрытые. Уже неактивные сессии не трогаются.
	CloseAllForUser(ctx context.Context, userID string) ([]*model.Session, error)
	// ListActive возвращает активные сессии; userID == nil — по всем пользователям.
	ListActive(ctx context.Context, userID *string) ([]*model.Session, error)
	// ListByUser возвращает все сессии пользователя, включая закрытые.
	ListByUser(ctx context.Context, userID string) ([]*model.Session, error)
}

// sessionRepo — реализация SessionRepository.
type sessionRepo struct {
	db DBTX
}

// NewSessionRepository создаёт репозиторий сессий.
func NewSessionRepository(db DBTX) SessionRepository {
	return &sessionRepo{db: db}
}

const sessionColumns = `id, user_id, ticket, created_at, expires_at, last_accessed_at, sliding_window_seconds, source_ip`

func scanSession(row pgx.Row) (*model.Session, error) {
	s := &model.Session{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.Ticket, &s.CreatedAt, &s.ExpiresAt,
		&s.LastAccessedAt, &s.SlidingWindowSeconds, &s.SourceIP,
	)
	return s, err
}

func (r *sessionRepo) Create(ctx context.Context, userID string, slidingWindowSeconds int, sourceIP string) (*model.Session, error) {
	query := fmt.Sprintf(`
		INSERT INTO sessions (id, user_id, ticket, expires_at, sliding_window_seconds, source_ip)
		VALUES ($1, $2, $3, now() + make_interval(secs => $4), $4, $5)
		RETURNING %s`, sessionColumns)

	s, err := scanSession(r.db.QueryRow(ctx, query,
		uuid.NewString(), userID, uuid.NewString(), slidingWindowSeconds, sourceIP))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания сессии: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)
	s, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сессии: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) GetByTicket(ctx context.Context, ticket string) (*model.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE ticket = $1`, sessionColumns)
	s, err := scanSession(r.db.QueryRow(ctx, query, ticket))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сессии по тикету: %w", err)
	}
	return s, nil
}

// Prolong — одно атомарное обновление: условие активности и сдвиг
// истечения в одном запросе, гонка двух конкурентных продлений
// безопасна (оба сдвигают вперёд).
func (r *sessionRepo) Prolong(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE sessions
		SET expires_at = now() + make_interval(secs => sliding_window_seconds),
		    last_accessed_at = now()
		WHERE id = $1 AND expires_at >= now()`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("ошибка продления сессии: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *sessionRepo) Close(ctx context.Context, id string) (*model.Session, error) {
	query := fmt.Sprintf(`
		UPDATE sessions
		SET expires_at = now() - interval '1 second'
		WHERE id = $1
		RETURNING %s`, sessionColumns)

	s, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка закрытия сессии: %w", err)
	}
	return s, nil
}

// CloseAllForUser — условие по активности в WHERE: если активных сессий
// нет, запрос не пишет ни одной строки.
func (r *sessionRepo) CloseAllForUser(ctx context.Context, userID string) ([]*model.Session, error) {
	query := fmt.Sprintf(`
		UPDATE sessions
		SET expires_at = now() - interval '1 second'
		WHERE user_id = $1 AND expires_at >= now()
		RETURNING %s`, sessionColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка закрытия сессий пользователя: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *sessionRepo) ListActive(ctx context.Context, userID *string) ([]*model.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sessions
		WHERE expires_at >= now() AND ($1::uuid IS NULL OR user_id = $1)
		ORDER BY created_at`, sessionColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения активных сессий: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID string) ([]*model.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sessions
		WHERE user_id = $1
		ORDER BY created_at`, sessionColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сессий пользователя: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]*model.Session, error) {
	var result []*model.Session
	for rows.Next() {
		s := &model.Session{}
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Ticket, &s.CreatedAt, &s.ExpiresAt,
			&s.LastAccessedAt, &s.SlidingWindowSeconds, &s.SourceIP,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сессии: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
