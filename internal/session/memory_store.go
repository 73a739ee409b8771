package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

// MemoryStore хранит снапшоты в памяти процесса. Используется,
// когда redis не настроен (локальный запуск), и в тестах.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]stores.SessionSnapshot
	anon map[string]struct{}
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]stores.SessionSnapshot),
		anon: make(map[string]struct{}),
	}
}

// Load возвращает копию сохранённого снапшота и проверяет её так же,
// как RedisStore.
func (m *MemoryStore) Load(_ context.Context, sessionID string) (*stores.InitialData, error) {
	const op = "session.MemoryStore.Load"
	if sessionID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingSessionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if snap, ok := m.data[sessionID]; ok {
		data := &stores.InitialData{SessionSnapshot: &snap}
		if err := data.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return data, nil
	}
	if _, ok := m.anon[sessionID]; ok {
		return &stores.InitialData{}, nil
	}
	return nil, nil
}

// Save сохраняет копию снапшота.
func (m *MemoryStore) Save(_ context.Context, sessionID string, data stores.InitialData) error {
	const op = "session.MemoryStore.Save"
	if sessionID == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingSessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if data.SessionSnapshot == nil {
		delete(m.data, sessionID)
		m.anon[sessionID] = struct{}{}
		return nil
	}
	delete(m.anon, sessionID)
	m.data[sessionID] = *data.SessionSnapshot
	return nil
}

// Delete удаляет снапшот.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	delete(m.anon, sessionID)
	return nil
}
