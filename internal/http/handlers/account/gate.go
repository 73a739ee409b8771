package account

import "github.com/magabrotheeeer/guitar-shop/internal/navigation"

// State - состояние проверки входа на странице кабинета.
type State int

const (
	// StateChecking - проверка ещё не выполнялась.
	StateChecking State = iota
	// StateRedirecting - покупатель не вошёл, переход на вход уже запрошен.
	StateRedirecting
	// StateAuthenticated - покупатель вошёл, страницу можно показывать.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateRedirecting:
		return "redirecting"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Gate не пускает в кабинет без входа. Check вызывается на каждое
// событие навигации; переход на /login запрашивается один раз.
type Gate struct {
	state State
}

// NewGate создаёт Gate в состоянии StateChecking.
func NewGate() *Gate {
	return &Gate{state: StateChecking}
}

// State возвращает текущее состояние.
func (g *Gate) State() State {
	return g.state
}

// Check сверяет состояние входа и при необходимости запрашивает переход.
func (g *Gate) Check(loggedIn bool, nav navigation.Navigator) State {
	if loggedIn {
		g.state = StateAuthenticated
		return g.state
	}
	if g.state != StateRedirecting {
		nav.Push(navigation.Login)
		g.state = StateRedirecting
	}
	return g.state
}
