// Package account реализует страницу личного кабинета покупателя и выход из него.
package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/metrics"
	"github.com/magabrotheeeer/guitar-shop/internal/navigation"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
)

// Shell описывает часть оболочки, нужную кабинету.
type Shell interface {
	Render(w http.ResponseWriter, r *http.Request, page shell.Page)
	Persist(w http.ResponseWriter, r *http.Request) error
	Discard(w http.ResponseWriter, r *http.Request) error
}

// Handler показывает кабинет (GET /account).
type Handler struct {
	log     *slog.Logger
	shell   Shell
	metrics *metrics.Metrics
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sh Shell, m *metrics.Metrics) *Handler {
	return &Handler{
		log:     log,
		shell:   sh,
		metrics: m,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	store, ok := shell.Session(r.Context())
	if !ok {
		log.Error("session store is missing", sl.Err(shell.ErrNoRegistry))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	nav := navigation.NewRecorder()
	if NewGate().Check(store.LoggedIn(), nav) != StateAuthenticated {
		log.Info("not logged in, redirecting", slog.String("to", nav.Destination()))
		if h.metrics != nil {
			h.metrics.AuthRedirects.WithLabelValues(navigation.Account, nav.Destination()).Inc()
		}
		nav.Commit(w, r)
		return
	}

	h.shell.Render(w, r, shell.Page{
		Name:  "account",
		Title: "My Account",
		Data:  NewPage(store).Identity(),
	})
}

// LogoutHandler выводит покупателя (POST /account/logout).
type LogoutHandler struct {
	log   *slog.Logger
	shell Shell
}

// NewLogout создает новый экземпляр LogoutHandler.
func NewLogout(log *slog.Logger, sh Shell) *LogoutHandler {
	return &LogoutHandler{
		log:   log,
		shell: sh,
	}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	store, ok := shell.Session(r.Context())
	if !ok {
		log.Error("session store is missing", sl.Err(shell.ErrNoRegistry))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	nav := navigation.NewRecorder()
	NewPage(store).Logout(nav)
	if err := h.shell.Persist(w, r); err != nil {
		log.Error("failed to persist session, discarding it", sl.Err(err))
		if err := h.shell.Discard(w, r); err != nil {
			log.Error("failed to discard session", sl.Err(err))
			h.shell.Render(w, r, shell.Page{Name: "error", Status: http.StatusInternalServerError})
			return
		}
	}
	log.Info("logged out")
	nav.Commit(w, r)
}
