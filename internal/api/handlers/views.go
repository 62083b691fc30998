// views.go — представления доменных моделей для ответов API.
// Пароль и соль наружу не отдаются никогда.
package handlers

import (
	"time"

	"github.com/bigkaa/goartstore/auth-module/internal/domain/model"
)

// userView — представление пользователя в ответах API.
type userView struct {
	ID        string    `json:"id"`
	IsActive  bool      `json:"isActive"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserView(u *model.User) userView {
	return userView{
		ID:        u.ID,
		IsActive:  u.IsActive,
		Email:     u.Email,
		UserName:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// sessionView — представление сессии в ответах API.
// Тикет виден: список сессий доступен только администраторам
// сессий и самому владельцу.
type sessionView struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Ticket               string    `json:"ticket"`
	CreatedAt            time.Time `json:"createdAt"`
	ExpiresAt            time.Time `json:"expiresAt"`
	LastAccessedAt       time.Time `json:"lastAccessedAt"`
	SlidingWindowSeconds int       `json:"slidingWindowSeconds"`
	SourceIP             string    `json:"sourceIp"`
}

func newSessionView(s *model.Session) sessionView {
	return sessionView{
		ID:                   s.ID,
		UserID:               s.UserID,
		Ticket:               s.Ticket,
		CreatedAt:            s.CreatedAt,
		ExpiresAt:            s.ExpiresAt,
		LastAccessedAt:       s.LastAccessedAt,
		SlidingWindowSeconds: s.SlidingWindowSeconds,
		SourceIP:             s.SourceIP,
	}
}

func newSessionViews(sessions []*model.Session) []sessionView {
	views := make([]sessionView, len(sessions))
	for i, s := range sessions {
		views[i] = newSessionView(s)
	}
	return views
}
