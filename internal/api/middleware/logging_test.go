package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// loggedRequest прогоняет запрос через RequestLogger и возвращает
// записанную JSON-строку лога.
func loggedRequest(t *testing.T, status int, mutate func(*http.Request)) string {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/own/sessions", nil)
	if mutate != nil {
		mutate(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	return buf.String()
}

func TestRequestLogger_Fields(t *testing.T) {
	out := loggedRequest(t, http.StatusOK, nil)

	for _, want := range []string{
		`"method":"GET"`,
		`"path":"/api/v1/users/own/sessions"`,
		`"status":200`,
		`"level":"INFO"`,
		`"remote_addr"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("в логе нет %s: %s", want, out)
		}
	}
	if strings.Contains(out, "forwarded_for") {
		t.Errorf("forwarded_for без заголовка X-Forwarded-For: %s", out)
	}
}

func TestRequestLogger_ForwardedFor(t *testing.T) {
	out := loggedRequest(t, http.StatusOK, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "203.0.113.7")
	})

	if !strings.Contains(out, `"forwarded_for":"203.0.113.7"`) {
		t.Errorf("в логе нет forwarded_for: %s", out)
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, `"level":"INFO"`},
		{http.StatusUnauthorized, `"level":"WARN"`},
		{http.StatusInternalServerError, `"level":"ERROR"`},
	}

	for _, tt := range tests {
		out := loggedRequest(t, tt.status, nil)
		if !strings.Contains(out, tt.level) {
			t.Errorf("статус %d: в логе нет %s: %s", tt.status, tt.level, out)
		}
	}
}
