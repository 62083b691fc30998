// users.go — обработчики /api/v1/users endpoints.
// Управление пользователями: поиск, создание, обновление, блокировка,
// роли, смена пароля, просмотр сессий.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/goartstore/auth-module/internal/api/errors"
	"github.com/bigkaa/goartstore/auth-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/auth-module/internal/domain/model"
	"github.com/bigkaa/goartstore/auth-module/internal/domain/role"
	"github.com/bigkaa/goartstore/auth-module/internal/service"
)

// createUserRequest — тело запроса создания пользователя.
type createUserRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// updateUserRequest — тело запроса обновления пользователя.
type updateUserRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
}

// changePasswordRequest — тело запроса смены пароля.
type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// FindUser — GET /api/v1/users?name=|email=.
// Ищет пользователя по точному совпадению имени либо email.
// Имя имеет приоритет, если заданы оба параметра.
func (h *APIHandler) FindUser(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	email := r.URL.Query().Get("email")

	if name == "" && email == "" {
		apierrors.ValidationError(w, "Name or email is required.")
		return
	}

	var (
		user *model.User
		err  error
	)
	if name != "" {
		user, err = h.users.GetByName(r.Context(), name)
	} else {
		user, err = h.users.GetByEmail(r.Context(), email)
	}
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "User not found.")
			return
		}
		h.internalError(w, "Ошибка поиска пользователя", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserView(user))
}

// GetUser — GET /api/v1/users/{id}.
func (h *APIHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.ValidationError(w, "Invalid user identifier.")
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "User not found.")
			return
		}
		h.internalError(w, "Ошибка получения пользователя", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserView(user))
}

// GetUserRoles — GET /api/v1/users/{id}/roles.
// Возвращает идентификаторы ролей. Пользователь без ролей — пустой список.
func (h *APIHandler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.ValidationError(w, "Invalid user identifier.")
		return
	}

	roles, err := h.users.GetRoles(r.Context(), id)
	if err != nil {
		h.internalError(w, "Ошибка получения ролей", err)
		return
	}

	ids := make([]int, len(roles))
	for i, rl := range roles {
		ids[i] = int(rl)
	}
	writeJSON(w, http.StatusOK, ids)
}

// SetUserRoles — PUT /api/v1/users/{id}/roles.
// Приводит набор ролей пользователя к переданному списку идентификаторов.
func (h *APIHandler) SetUserRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.ValidationError(w, "Invalid user identifier.")
		return
	}

	var roleIDs []int
	if err := json.NewDecoder(r.Body).Decode(&roleIDs); err != nil {
		apierrors.ValidationError(w, "Request is empty or has invalid format.")
		return
	}

	roles := make([]role.Role, len(roleIDs))
	for i, rid := range roleIDs {
		roles[i] = role.Role(rid)
	}

	if err := h.users.SetRoles(r.Context(), id, roles); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "User not found.")
		default:
			h.internalError(w, "Ошибка обновления ролей", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetUserSessions — GET /api/v1/users/{id}/sessions?onlyActive=.
func (h *APIHandler) GetUserSessions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.ValidationError(w, "Invalid user identifier.")
		return
	}

	sessions, err := h.users.GetSessions(r.Context(), id, parseOnlyActive(r))
	if err != nil {
		h.internalError(w, "Ошибка получения сессий пользователя", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionViews(sessions))
}

// GetOwnSessions — GET /api/v1/users/own/sessions?onlyActive=.
// Возвращает сессии пользователя, прошедшего проверку тикета.
func (h *APIHandler) GetOwnSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		apierrors.Unauthorized(w, "")
		return
	}

	sessions, err := h.users.GetSessions(r.Context(), userID, parseOnlyActive(r))
	if err != nil {
		h.internalError(w, "Ошибка получения собственных сессий", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionViews(sessions))
}

// CreateUser — POST /api/v1/users.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Request is empty or has invalid format.")
		return
	}

	if req.UserName == "" || len(req.UserName) > 32 {
		apierrors.ValidationError(w, "User name is empty or has length more than 32.")
		return
	}
	if req.Password == "" {
		apierrors.ValidationError(w, "Password is empty.")
		return
	}
	if req.Email == "" || !isEmailValid(req.Email) {
		apierrors.ValidationError(w, "Email is empty or has invalid format.")
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			apierrors.Conflict(w, err.Error())
			return
		}
		h.internalError(w, "Ошибка создания пользователя", err)
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+user.ID)
	writeJSON(w, http.StatusCreated, newUserView(user))
}

// UpdateUser — PUT /api/v1/users/{id}.
func (h *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.ValidationError(w, "Invalid user identifier.")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Request is empty or has invalid format.")
		return
	}

	if req.UserName == "" || len(req.UserName) > 32 {
		apierrors.ValidationError(w, "User name is empty or has length more than 32.")
		return
	}
	if req.Email == "" || !isEmailValid(req.Email) {
		apierrors.ValidationError(w, "Email is empty or has invalid format.")
		return
	}

	user, err := h.users.Update(r.Context(), id, req.Email, req.UserName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "User not found.")
		case errors.Is(err, service.ErrConflict):
			apierrors.Conflict(w, err.Error())
		default:
			h.internalError(w, "Ошибка обновления пользователя", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, newUserView(user))
}

// ChangePassword — PUT /api/v1/users/{id}/password.
// Смена пароля закрывает все активные сессии пользователя.
func (h *APIHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.ValidationError(w, "Invalid user identifier.")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Request is empty or has invalid format.")
		return
	}
	if req.NewPassword == "" {
		apierrors.ValidationError(w, "Password is empty.")
		return
	}

	if err := h.users.ChangePassword(r.Context(), id, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "User not found.")
			return
		}
		h.internalError(w, "Ошибка смены пароля", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// BlockUser — PUT /api/v1/users/{id}/block.
func (h *APIHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, false)
}

// UnblockUser — PUT /api/v1/users/{id}/unblock.
func (h *APIHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, true)
}

func (h *APIHandler) setUserActive(w http.ResponseWriter, r *http.Request, isActive bool) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		apierrors.ValidationError(w, "Invalid user identifier.")
		return
	}

	user, err := h.users.UpdateActive(r.Context(), id, isActive)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "User not found.")
			return
		}
		h.internalError(w, "Ошибка изменения активности пользователя", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserView(user))
}
