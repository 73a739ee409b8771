package stores

import (
	"sort"
	"sync"
)

// Store - хранилище, которое можно положить в реестр.
type Store interface {
	Name() string
}

// Registry отображает имя хранилища в его экземпляр.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]Store
}

// NewRegistry строит реестр и засевает хранилища из снапшота, если он передан.
func NewRegistry(data *InitialData) *Registry {
	var sessionSnap *SessionSnapshot
	if data != nil && data.SessionSnapshot != nil {
		snap := *data.SessionSnapshot
		sessionSnap = &snap
	}

	r := &Registry{stores: make(map[string]Store)}
	r.Register(NewSessionStore(sessionSnap))
	return r
}

// Register добавляет хранилище, заменяя одноимённое.
func (r *Registry) Register(s Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[s.Name()] = s
}

// Get возвращает хранилище по имени.
func (r *Registry) Get(name string) (Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[name]
	return s, ok
}

// Names возвращает отсортированные имена хранилищ.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Session возвращает хранилище сессии. Оно есть в любом реестре из NewRegistry.
func (r *Registry) Session() *SessionStore {
	s, _ := r.Get(SessionStoreName)
	session, _ := s.(*SessionStore)
	return session
}

// InitialData экспортирует снапшот хранилищ для передачи клиенту.
func (r *Registry) InitialData() InitialData {
	var data InitialData
	if session := r.Session(); session != nil {
		snap := session.Snapshot()
		data.SessionSnapshot = &snap
	}
	return data
}
