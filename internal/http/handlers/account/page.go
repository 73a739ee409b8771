package account

import (
	"github.com/magabrotheeeer/guitar-shop/internal/navigation"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

// Page - действия страницы кабинета над хранилищем сессии.
type Page struct {
	session *stores.SessionStore
}

// NewPage создаёт Page.
func NewPage(session *stores.SessionStore) *Page {
	return &Page{session: session}
}

// Identity возвращает данные для показа. Вызывать только после того,
// как Gate перешёл в StateAuthenticated.
func (p *Page) Identity() stores.Identity {
	return p.session.Identity()
}

// Logout выводит покупателя и уводит на главную.
func (p *Page) Logout(nav navigation.Navigator) {
	p.session.Logout()
	nav.Push(navigation.Home)
}
