// password.go — хэширование и проверка паролей.
//
// Формат хранения: base64(SHA-256(password ++ salt) ++ salt).
// Соль дописывается к дайджесту внутри base64-значения, поэтому хэш
// самодостаточен, но соль дополнительно хранится отдельной колонкой
// для пересчёта при проверке.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// saltAlphabet — алфавит соли: латиница в обоих регистрах и цифры.
const saltAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// saltLength — длина персональной соли пользователя.
const saltLength = 10

// GenerateSalt возвращает криптографически случайную соль
// из 10 алфавитно-цифровых символов.
func GenerateSalt() (string, error) {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("ошибка генерации соли: %w", err)
	}
	for i, b := range buf {
		buf[i] = saltAlphabet[int(b)%len(saltAlphabet)]
	}
	return string(buf), nil
}

// HashPassword вычисляет хэш пароля с солью:
// base64(SHA-256(password ++ salt) ++ salt).
func HashPassword(password, salt string) string {
	digest := sha256.Sum256(append([]byte(password), []byte(salt)...))
	return base64.StdEncoding.EncodeToString(append(digest[:], []byte(salt)...))
}

// VerifyPassword проверяет пароль против сохранённого хэша.
// Сравнение выполняется за постоянное время.
func VerifyPassword(password, salt, storedHash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
