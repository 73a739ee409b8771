// Package session хранит снапшоты хранилищ между запросами одного покупателя
// и выдаёт подписанную cookie с идентификатором сессии.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

// Store описывает хранилище снапшотов по идентификатору сессии.
type Store interface {
	// Load возвращает сохранённый снапшот или nil, если его нет.
	Load(ctx context.Context, sessionID string) (*stores.InitialData, error)
	Save(ctx context.Context, sessionID string, data stores.InitialData) error
	Delete(ctx context.Context, sessionID string) error
}

// NewID генерирует новый идентификатор сессии.
func NewID() string {
	return uuid.NewString()
}

// ValidID проверяет, что идентификатор имеет формат UUID.
func ValidID(sessionID string) bool {
	_, err := uuid.Parse(sessionID)
	return err == nil
}
