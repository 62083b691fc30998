// Пакет model — доменные модели Auth Module.
package model

import "time"

// User — учётная запись пользователя.
// Хранится в таблице users. PasswordHash — base64(SHA-256(password ++ salt) ++ salt),
// открытый пароль нигде не хранится.
type User struct {
	// ID — UUID пользователя
	ID string
	// IsActive — активен ли пользователь.
	// Заблокированный пользователь не проходит ни проверку учётных данных,
	// ни проверку тикета.
	IsActive bool
	// Email — адрес электронной почты (уникальный)
	Email string
	// Username — имя пользователя (уникальное, до 32 символов)
	Username string
	// PasswordHash — хэш пароля с солью в base64
	PasswordHash string
	// Salt — персональная соль (10 алфавитно-цифровых символов)
	Salt string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего изменения, обновляется при каждой мутации
	UpdatedAt time.Time
}
