// auth.go — middleware авторизации по тикету.
// Извлекает тикет из заголовка Authorization, проверяет и продлевает
// сессию через AuthService, помещает идентификаторы пользователя и
// сессии в контекст запроса.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/bigkaa/goartstore/auth-module/internal/api/errors"
	"github.com/bigkaa/goartstore/auth-module/internal/domain/role"
	"github.com/bigkaa/goartstore/auth-module/internal/service"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyUserID — UUID пользователя, прошедшего проверку тикета.
	ContextKeyUserID contextKey = "user_id"
	// ContextKeySessionID — UUID проверенной сессии.
	ContextKeySessionID contextKey = "session_id"
)

// TicketVerifier — проверка тикета с продлением сессии.
// Реализуется service.AuthService.
type TicketVerifier interface {
	Registrate(ctx context.Context, ticket string, required []role.Role) (*service.AuthResult, error)
}

// TicketAuth — middleware авторизации по тикету.
type TicketAuth struct {
	auth   TicketVerifier
	logger *slog.Logger
}

// NewTicketAuth создаёт middleware авторизации.
func NewTicketAuth(auth TicketVerifier, logger *slog.Logger) *TicketAuth {
	return &TicketAuth{
		auth:   auth,
		logger: logger.With(slog.String("component", "ticket_auth")),
	}
}

// RequireTicket возвращает middleware, требующий живую сессию и —
// если указаны роли — хотя бы одну из них. Успешная проверка
// продлевает сессию и кладёт userID/sessionID в контекст.
//
// Без указанных ролей достаточно живой сессии любого пользователя.
func (t *TicketAuth) RequireTicket(required ...role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Authorize header is empty.")
				return
			}

			// Префикс схемы снимается без учёта регистра; заголовок
			// с голым тикетом тоже принимается.
			ticket := authHeader
			if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
				ticket = strings.TrimSpace(authHeader[7:])
			}

			result, err := t.auth.Registrate(r.Context(), ticket, required)
			if err != nil {
				t.logger.Error("Ошибка проверки тикета",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.InternalError(w, rootCause(err).Error())
				return
			}

			switch result.Code {
			case http.StatusOK:
				ctx := context.WithValue(r.Context(), ContextKeyUserID, result.UserID)
				ctx = context.WithValue(ctx, ContextKeySessionID, result.SessionID)
				next.ServeHTTP(w, r.WithContext(ctx))
			case http.StatusForbidden:
				apierrors.Forbidden(w, result.Message)
			default:
				apierrors.Unauthorized(w, result.Message)
			}
		})
	}
}

// rootCause разворачивает цепочку обёрток до исходной ошибки.
func rootCause(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// --- Context helpers ---

// UserIDFromContext извлекает UUID пользователя из контекста запроса.
// Возвращает пустую строку, если проверка тикета не проводилась.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyUserID).(string)
	return id
}

// SessionIDFromContext извлекает UUID сессии из контекста запроса.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeySessionID).(string)
	return id
}
