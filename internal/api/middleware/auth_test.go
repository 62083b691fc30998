// auth_test.go — unit-тесты middleware авторизации по тикету.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bigkaa/goartstore/auth-module/internal/domain/role"
	"github.com/bigkaa/goartstore/auth-module/internal/service"
)

// mockVerifier — мок TicketVerifier.
type mockVerifier struct {
	registrateFn func(ctx context.Context, ticket string, required []role.Role) (*service.AuthResult, error)
}

func (m *mockVerifier) Registrate(ctx context.Context, ticket string, required []role.Role) (*service.AuthResult, error) {
	return m.registrateFn(ctx, ticket, required)
}

// errorResponse — формат тела ошибки для разбора в тестах.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("ошибка разбора тела ответа: %v", err)
	}
	return resp
}

func okResult() *service.AuthResult {
	return &service.AuthResult{Code: http.StatusOK, SessionID: "sess-1", UserID: "user-1"}
}

func TestRequireTicket_EmptyHeader(t *testing.T) {
	verifier := &mockVerifier{
		registrateFn: func(_ context.Context, _ string, _ []role.Role) (*service.AuthResult, error) {
			t.Error("Registrate вызван при пустом заголовке")
			return nil, nil
		},
	}
	mw := NewTicketAuth(verifier, slog.Default())

	handler := mw.RequireTicket()(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("handler вызван без авторизации")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус = %d, хотели 401", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error.Message != "Authorize header is empty." {
		t.Errorf("message = %q, хотели Authorize header is empty.", resp.Error.Message)
	}
}

// TestRequireTicket_BearerPrefix — префикс Bearer снимается без учёта
// регистра, голый тикет тоже принимается.
func TestRequireTicket_BearerPrefix(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"стандартный Bearer", "Bearer ticket-123", "ticket-123"},
		{"нижний регистр", "bearer ticket-123", "ticket-123"},
		{"смешанный регистр", "BeArEr ticket-123", "ticket-123"},
		{"голый тикет", "ticket-123", "ticket-123"},
		{"пробелы после префикса", "Bearer   ticket-123", "ticket-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			verifier := &mockVerifier{
				registrateFn: func(_ context.Context, ticket string, _ []role.Role) (*service.AuthResult, error) {
					got = ticket
					return okResult(), nil
				},
			}
			mw := NewTicketAuth(verifier, slog.Default())
			handler := mw.RequireTicket()(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got != tt.want {
				t.Errorf("тикет = %q, хотели %q", got, tt.want)
			}
		})
	}
}

// TestRequireTicket_Success — требуемые роли доходят до сервиса,
// userID и sessionID попадают в контекст.
func TestRequireTicket_Success(t *testing.T) {
	verifier := &mockVerifier{
		registrateFn: func(_ context.Context, _ string, required []role.Role) (*service.AuthResult, error) {
			if len(required) != 1 || required[0] != role.ManageUsers {
				t.Errorf("required = %v, хотели [ManageUsers]", required)
			}
			return okResult(), nil
		},
	}
	mw := NewTicketAuth(verifier, slog.Default())

	called := false
	handler := mw.RequireTicket(role.ManageUsers)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		called = true
		if UserIDFromContext(r.Context()) != "user-1" {
			t.Errorf("userID в контексте = %q, хотели user-1", UserIDFromContext(r.Context()))
		}
		if SessionIDFromContext(r.Context()) != "sess-1" {
			t.Errorf("sessionID в контексте = %q, хотели sess-1", SessionIDFromContext(r.Context()))
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer ticket-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("handler не вызван при успешной проверке")
	}
}

func TestRequireTicket_DenyCodes(t *testing.T) {
	tests := []struct {
		name     string
		result   *service.AuthResult
		wantCode int
		wantMsg  string
	}{
		{
			"нет сессии",
			&service.AuthResult{Code: http.StatusUnauthorized},
			http.StatusUnauthorized, "",
		},
		{
			"сессия истекла",
			&service.AuthResult{Code: http.StatusUnauthorized, Message: "Session expired."},
			http.StatusUnauthorized, "Session expired.",
		},
		{
			"недостаточно прав",
			&service.AuthResult{Code: http.StatusForbidden, Message: "Forbidden"},
			http.StatusForbidden, "Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mockVerifier{
				registrateFn: func(_ context.Context, _ string, _ []role.Role) (*service.AuthResult, error) {
					return tt.result, nil
				},
			}
			mw := NewTicketAuth(verifier, slog.Default())
			handler := mw.RequireTicket()(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				t.Error("handler вызван при отказе в доступе")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			req.Header.Set("Authorization", "Bearer ticket-123")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("статус = %d, хотели %d", rec.Code, tt.wantCode)
			}
			resp := decodeError(t, rec)
			if resp.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, хотели %q", resp.Error.Message, tt.wantMsg)
			}
		})
	}
}

// TestRequireTicket_InternalError — в ответ 500 попадает исходная
// ошибка, а не цепочка обёрток.
func TestRequireTicket_InternalError(t *testing.T) {
	root := fmt.Errorf("соединение разорвано")
	wrapped := fmt.Errorf("поиск сессии по тикету: %w", fmt.Errorf("ошибка запроса: %w", root))

	verifier := &mockVerifier{
		registrateFn: func(_ context.Context, _ string, _ []role.Role) (*service.AuthResult, error) {
			return nil, wrapped
		},
	}
	mw := NewTicketAuth(verifier, slog.Default())
	handler := mw.RequireTicket()(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("handler вызван при внутренней ошибке")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer ticket-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("статус = %d, хотели 500", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error.Message != "соединение разорвано" {
		t.Errorf("message = %q, хотели исходную ошибку", resp.Error.Message)
	}
	if strings.Contains(resp.Error.Message, "поиск сессии") {
		t.Error("в сообщение попала цепочка обёрток")
	}
}
