package model

import "time"

// Session — пользовательская сессия с тикетом (bearer-токен).
// Хранится в таблице sessions. Сессии никогда не удаляются физически:
// закрытие — это перевод ExpiresAt в прошлое, история сохраняется для аудита.
type Session struct {
	// ID — UUID сессии
	ID string
	// UserID — владелец сессии (слабая ссылка, закрытие сессии не трогает пользователя)
	UserID string
	// Ticket — непрозрачный bearer-токен (UUID, недоступен перебору)
	Ticket string
	// CreatedAt — время создания сессии
	CreatedAt time.Time
	// ExpiresAt — время истечения. Сессия активна, пока ExpiresAt >= now.
	// Двигается только вперёд (продление) либо принудительно в прошлое (закрытие).
	ExpiresAt time.Time
	// LastAccessedAt — время последнего успешного авторизованного обращения
	LastAccessedAt time.Time
	// SlidingWindowSeconds — инкремент продления, зафиксированный при создании
	SlidingWindowSeconds int
	// SourceIP — IP-адрес, с которого создана сессия (справочное поле)
	SourceIP string
}

// IsActive сообщает, активна ли сессия на момент now.
func (s *Session) IsActive(now time.Time) bool {
	return !s.ExpiresAt.Before(now)
}
