// Package models содержит доменные модели витрины: покупателя и гитару.
package models

import "time"

// User представляет зарегистрированного покупателя.
type User struct {
	UUID         string    // Уникальный идентификатор покупателя
	Email        string    // Электронная почта, используется как логин
	FirstName    string    // Имя
	LastName     string    // Фамилия
	PasswordHash string    // bcrypt-хэш пароля
	CreatedAt    time.Time // Дата регистрации
}
