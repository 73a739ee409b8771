// Package shell - оболочка витрины: поднимает реестр хранилищ на каждый
// запрос, сохраняет снапшот сессии и рисует общий каркас страниц.
package shell

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/guitar-shop/internal/consent"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/metrics"
	"github.com/magabrotheeeer/guitar-shop/internal/session"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

// Options - настройки интеграций, которые попадают в каркас страницы.
type Options struct {
	WriteKey string
	GTMID    string
}

// Shell хранит зависимости оболочки. Создаётся один раз при старте.
type Shell struct {
	log      *slog.Logger
	provider *stores.Provider
	sessions session.Store
	cookies  *session.Cookies
	metrics  *metrics.Metrics
	opts     Options
	pages    map[string]*template.Template
	callback consent.Callback
}

type sessionIDKey struct{}

// New создаёт Shell и разбирает шаблоны страниц.
func New(
	log *slog.Logger,
	provider *stores.Provider,
	sessions session.Store,
	cookies *session.Cookies,
	adapter *consent.Adapter,
	m *metrics.Metrics,
	opts Options,
) (*Shell, error) {
	const op = "shell.New"

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Shell{
		log:      log,
		provider: provider,
		sessions: sessions,
		cookies:  cookies,
		metrics:  m,
		opts:     opts,
		pages:    pages,
		callback: adapter.Callback(),
	}, nil
}

// ConsentCallback возвращает единственный обработчик изменения согласия.
func (s *Shell) ConsentCallback() consent.Callback {
	return s.callback
}

// Bootstrap строит реестр хранилищ для запроса из сохранённого снапшота
// и кладёт его в контекст.
func (s *Shell) Bootstrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "shell.Bootstrap"
		ctx := r.Context()

		sid, ok := s.cookies.Read(r)
		var data *stores.InitialData
		if ok {
			loaded, err := s.sessions.Load(ctx, sid)
			if err != nil {
				s.log.Warn("failed to load session snapshot, starting fresh",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(ctx)),
					sl.Err(err),
				)
			} else {
				data = loaded
			}
		} else {
			sid = session.NewID()
		}

		reg := s.provider.GetStores(data)
		ctx = stores.WithRegistry(ctx, reg)
		ctx = context.WithValue(ctx, sessionIDKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Persist сохраняет снапшот сессии запроса и продлевает cookie.
// Вызывается после изменения хранилища сессии и до записи тела ответа.
func (s *Shell) Persist(w http.ResponseWriter, r *http.Request) error {
	const op = "shell.Persist"
	ctx := r.Context()

	reg, ok := stores.FromContext(ctx)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrNoRegistry)
	}
	sid, _ := ctx.Value(sessionIDKey{}).(string)
	if sid == "" {
		return fmt.Errorf("%s: %w", op, session.ErrMissingSessionID)
	}

	if err := s.sessions.Save(ctx, sid, reg.InitialData()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cookies.Issue(w, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Discard забывает сессию запроса: удаляет cookie у клиента и снапшот
// из хранилища. Следующий запрос начнётся с чистого реестра.
// Нужен, когда Persist не смог сохранить выход.
func (s *Shell) Discard(w http.ResponseWriter, r *http.Request) error {
	const op = "shell.Discard"
	ctx := r.Context()

	s.cookies.Clear(w)
	sid, _ := ctx.Value(sessionIDKey{}).(string)
	if sid == "" {
		return fmt.Errorf("%s: %w", op, session.ErrMissingSessionID)
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SessionID возвращает идентификатор сессии текущего запроса.
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey{}).(string)
	return sid
}

// Session достаёт хранилище сессии из контекста запроса.
func Session(ctx context.Context) (*stores.SessionStore, bool) {
	reg, ok := stores.FromContext(ctx)
	if !ok {
		return nil, false
	}
	s := reg.Session()
	return s, s != nil
}
