// handler.go — основной обработчик API Auth Module.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	apierrors "github.com/bigkaa/goartstore/auth-module/internal/api/errors"
	"github.com/bigkaa/goartstore/auth-module/internal/service"
)

// APIHandler — основной обработчик API Auth Module.
// Делегирует запросы в сервисный слой.
type APIHandler struct {
	health   *HealthHandler
	auth     *service.AuthService
	users    *service.UserService
	sessions *service.SessionService
	logger   *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	auth *service.AuthService,
	users *service.UserService,
	sessions *service.SessionService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:   health,
		auth:     auth,
		users:    users,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// internalError логирует ошибку и отвечает 500 с исходной причиной,
// без цепочки обёрток.
func (h *APIHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.String("error", err.Error()))
	apierrors.InternalError(w, rootCause(err).Error())
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

// parseID разбирает UUID из сегмента пути.
func parseID(raw string) (string, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// parseOnlyActive разбирает query-параметр onlyActive.
// Отсутствующее или нечитаемое значение трактуется как true.
func parseOnlyActive(r *http.Request) bool {
	raw := r.URL.Query().Get("onlyActive")
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

// emailPattern — формат адреса электронной почты: локальная часть,
// затем доменное имя либо IPv4-адрес.
var emailPattern = regexp.MustCompile(
	`^[\w!#$%&'*+\-/=?^_` + "`" + `{|}~]+(\.[\w!#$%&'*+\-/=?^_` + "`" + `{|}~]+)*` +
		`@` +
		`((([\-\w]+\.)+[a-zA-Z]{2,4})|(([0-9]{1,3}\.){3}[0-9]{1,3}))$`)

// isEmailValid проверяет формат адреса электронной почты.
func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

// isIPv4 проверяет, что строка — IPv4-адрес в точечной записи
// с октетами не больше 255.
func isIPv4(addr string) bool {
	parts := strings.Split(addr, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if len(part) == 0 || len(part) > 3 {
			return false
		}
		n := 0
		for _, c := range part {
			if c < '0' || c > '9' {
				return false
			}
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return false
		}
	}
	return true
}
