// Пакет server — HTTP-сервер Auth Module с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/goartstore/auth-module/internal/api/handlers"
	"github.com/bigkaa/goartstore/auth-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/auth-module/internal/config"
	"github.com/bigkaa/goartstore/auth-module/internal/domain/role"
)

// Server — HTTP-сервер Auth Module.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// ticketAuth — middleware проверки тикета; требуемые роли задаются
// per-route при регистрации маршрутов.
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler, ticketAuth *middleware.TicketAuth) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Публичные endpoints: health проверяется Kubernetes напрямую,
	// login по определению доступен без тикета.
	router.Get("/health/live", handler.HealthLive)
	router.Get("/health/ready", handler.HealthReady)
	router.Get("/metrics", handler.GetMetrics)
	router.Post("/api/v1/login", handler.Login)

	// Управление пользователями — роль manage_users.
	router.Route("/api/v1/users", func(r chi.Router) {
		// Владелец сессии видит свои сессии без специальных ролей.
		r.With(ticketAuth.RequireTicket()).Get("/own/sessions", handler.GetOwnSessions)

		r.Group(func(r chi.Router) {
			r.Use(ticketAuth.RequireTicket(role.ManageUsers))
			r.Get("/", handler.FindUser)
			r.Post("/", handler.CreateUser)
			r.Get("/{id}", handler.GetUser)
			r.Put("/{id}", handler.UpdateUser)
			r.Get("/{id}/roles", handler.GetUserRoles)
			r.Put("/{id}/roles", handler.SetUserRoles)
			r.Get("/{id}/sessions", handler.GetUserSessions)
			r.Put("/{id}/password", handler.ChangePassword)
			r.Put("/{id}/block", handler.BlockUser)
			r.Put("/{id}/unblock", handler.UnblockUser)
		})
	})

	// Администрирование сессий — роль manage_sessions.
	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(ticketAuth.RequireTicket(role.ManageSessions))
		r.Get("/active", handler.GetActiveSessions)
		r.Put("/close", handler.CloseUserSessions)
		r.Get("/{id}", handler.GetSession)
		r.Put("/{id}/close", handler.CloseSession)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
