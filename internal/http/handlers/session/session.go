// Package session отдаёт снапшот хранилищ текущего запроса через JSON API.
package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/guitar-shop/internal/http/response"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Снапшот сессии
// @Description Возвращает тот же снапшот, что встраивается в страницы витрины.
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response
// @Router /session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session"

	reg, ok := stores.FromContext(r.Context())
	if !ok {
		h.log.Error("registry is missing",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(shell.ErrNoRegistry),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(reg.InitialData()))
}
