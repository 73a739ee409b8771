package session

import (
	"net/http"
	"time"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/jwt"
)

// CookieOptions задаёт параметры cookie сессии.
type CookieOptions struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Name == "" {
		o.Name = "leo_session"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// Cookies выдаёт и читает cookie, в которой лежит подписанный идентификатор сессии.
type Cookies struct {
	maker jwt.Maker
	opts  CookieOptions
}

// NewCookies создаёт Cookies.
func NewCookies(maker jwt.Maker, opts CookieOptions) *Cookies {
	return &Cookies{maker: maker, opts: opts.normalize()}
}

// Name возвращает имя cookie.
func (c *Cookies) Name() string {
	return c.opts.Name
}

// Issue подписывает идентификатор и выставляет cookie.
func (c *Cookies) Issue(w http.ResponseWriter, sessionID string) error {
	token, err := c.maker.GenerateToken(sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.opts.Name,
		Value:    token,
		Path:     c.opts.Path,
		Expires:  time.Now().Add(c.opts.TTL),
		MaxAge:   int(c.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	})
	return nil
}

// Read возвращает идентификатор сессии из cookie запроса.
// Отсутствующая, просроченная или поддельная cookie даёт ok == false.
func (c *Cookies) Read(r *http.Request) (sessionID string, ok bool) {
	cookie, err := r.Cookie(c.opts.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	claims, err := c.maker.ParseToken(cookie.Value)
	if err != nil || !ValidID(claims.SessionID) {
		return "", false
	}
	return claims.SessionID, true
}

// Clear удаляет cookie у клиента.
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.opts.Name,
		Value:    "",
		Path:     c.opts.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	})
}
