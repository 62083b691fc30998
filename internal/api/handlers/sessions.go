// sessions.go — обработчики /api/v1/sessions endpoints.
// Просмотр и принудительное закрытие пользовательских сессий.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/goartstore/auth-module/internal/api/errors"
	"github.com/bigkaa/goartstore/auth-module/internal/service"
)

// GetActiveSessions — GET /api/v1/sessions/active.
// Возвращает все активные сессии всех пользователей.
func (h *APIHandler) GetActiveSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.GetActive(r.Context())
	if err != nil {
		h.internalError(w, "Ошибка получения активных сессий", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionViews(sessions))
}

// GetSession — GET /api/v1/sessions/{id}.
func (h *APIHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.ValidationError(w, "Invalid session identifier.")
		return
	}

	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Session not found.")
			return
		}
		h.internalError(w, "Ошибка получения сессии", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session))
}

// CloseSession — PUT /api/v1/sessions/{id}/close.
// Закрывает сессию, переводя срок её жизни в прошлое.
func (h *APIHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.ValidationError(w, "Invalid session identifier.")
		return
	}

	session, err := h.sessions.Close(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Session not found.")
			return
		}
		h.internalError(w, "Ошибка закрытия сессии", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session))
}

// CloseUserSessions — PUT /api/v1/sessions/close?userId=.
// Закрывает все активные сессии указанного пользователя.
func (h *APIHandler) CloseUserSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(r.URL.Query().Get("userId"))
	if !ok {
		apierrors.ValidationError(w, "Invalid user identifier.")
		return
	}

	closed, err := h.sessions.CloseAllForUser(r.Context(), userID)
	if err != nil {
		h.internalError(w, "Ошибка закрытия сессий пользователя", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionViews(closed))
}
