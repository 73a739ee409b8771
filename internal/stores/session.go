package stores

import "sync"

// SessionStoreName - ключ хранилища сессии в реестре.
const SessionStoreName = "userLoginStore"

// Identity - данные покупателя, копируемые в хранилище при входе.
type Identity struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// SessionStore хранит состояние входа покупателя.
//
// При LoggedIn == false поля Identity не предназначены для показа:
// вызывающий код должен перенаправить покупателя до того, как их читать.
type SessionStore struct {
	mu       sync.RWMutex
	loggedIn bool
	identity Identity
}

// NewSessionStore создаёт хранилище из снапшота.
// При snap == nil хранилище находится в состоянии «не вошёл».
func NewSessionStore(snap *SessionSnapshot) *SessionStore {
	s := &SessionStore{}
	if snap != nil {
		s.restore(*snap)
	}
	return s
}

// Name реализует Store.
func (s *SessionStore) Name() string {
	return SessionStoreName
}

// Login отмечает покупателя вошедшим и копирует его данные.
// Проверка учётных данных - забота сервиса auth.
func (s *SessionStore) Login(identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.identity = identity
}

// Logout сбрасывает состояние в «не вошёл». Повторный вызов ничего не меняет.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	s.identity = Identity{}
}

// LoggedIn сообщает, вошёл ли покупатель.
func (s *SessionStore) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Identity возвращает копию данных покупателя.
func (s *SessionStore) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Snapshot возвращает копию изменяемых полей хранилища.
func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{
		LoggedIn:  s.loggedIn,
		FirstName: s.identity.FirstName,
		LastName:  s.identity.LastName,
		Email:     s.identity.Email,
	}
}

func (s *SessionStore) restore(snap SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = snap.LoggedIn
	s.identity = Identity{
		FirstName: snap.FirstName,
		LastName:  snap.LastName,
		Email:     snap.Email,
	}
}
