// Package logout реализует выход покупателя через JSON API.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/guitar-shop/internal/http/response"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
)

// Sessions сохраняет или забывает сессию запроса.
type Sessions interface {
	Persist(w http.ResponseWriter, r *http.Request) error
	Discard(w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	log   *slog.Logger
	shell Sessions
}

func New(log *slog.Logger, sh Sessions) *Handler {
	return &Handler{
		log:   log,
		shell: sh,
	}
}

// ServeHTTP godoc
// @Summary Выход покупателя
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Снапшот сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	store, ok := shell.Session(r.Context())
	if !ok {
		log.Error("session store is missing", sl.Err(shell.ErrNoRegistry))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	store.Logout()
	if err := h.shell.Persist(w, r); err != nil {
		log.Error("failed to persist session, discarding it", sl.Err(err))
		if err := h.shell.Discard(w, r); err != nil {
			log.Error("failed to discard session", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
			return
		}
	}

	log.Info("logged out")
	render.JSON(w, r, response.OKWithData(store.Snapshot()))
}
