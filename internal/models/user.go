// Package models содержит доменные модели сервиса бронирования переговорных:
// пользователей, комнаты, команды и встречи. Структуры используются
// в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Role роль пользователя.
type Role string

const (
	// RoleUser обычный пользователь.
	RoleUser Role = "user"
	// RoleAdmin администратор, обходит ограничения «только свои данные».
	RoleAdmin Role = "admin"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User представляет пользователя системы.
type User struct {
	ID           int64     // Уникальный идентификатор, не меняется после создания
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // bcrypt-хеш пароля
	Role         Role      // Роль пользователя
	AuthenToken  *string   // Токен текущей сессии, nil после выхода
	CreatedAt    time.Time // Дата создания
	UpdatedAt    time.Time // Дата последнего изменения
}

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccess реализует правило «сам или администратор».
func (u *User) CanAccess(ownerID int64) bool {
	return u.ID == ownerID || u.IsAdmin()
}

// UserUpdate описывает изменения пользователя. Nil в PasswordHash оставляет пароль прежним.
type UserUpdate struct {
	Username     string
	PasswordHash *string
}
