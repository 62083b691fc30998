// login.go — обработчик POST /api/v1/login.
package handlers

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/auth-module/internal/api/errors"
)

// loginRequest — тело запроса входа.
type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
	IP       string `json:"ip"`
}

// loginResponse — ответ на успешный вход.
type loginResponse struct {
	Ticket string `json:"ticket"`
}

// Login — POST /api/v1/login.
// Проверяет учётные данные и возвращает тикет новой сессии.
// Причина отказа не раскрывается.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Request is empty or has invalid format.")
		return
	}

	if !isIPv4(req.IP) {
		apierrors.ValidationError(w, "IP addres has invalid format.")
		return
	}

	result, err := h.auth.Login(r.Context(), req.UserName, req.Password, req.IP)
	if err != nil {
		h.internalError(w, "Ошибка входа", err)
		return
	}

	if !result.IsAuth {
		apierrors.Unauthorized(w, "Login or password are invalid or user is inactive.")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Ticket: result.Ticket})
}
