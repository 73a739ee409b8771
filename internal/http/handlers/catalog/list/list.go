// Package list показывает каталог гитар: карточки на главной и JSON API.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/guitar-shop/internal/http/response"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/models"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
)

// Service описывает чтение каталога.
type Service interface {
	List(ctx context.Context) ([]models.Guitar, error)
}

// Renderer рисует страницу в каркасе витрины.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, page shell.Page)
}

// PageData - данные шаблона главной страницы.
type PageData struct {
	Guitars []models.Guitar
}

// Handler рисует главную с карточками гитар (GET /).
type Handler struct {
	log     *slog.Logger
	service Service
	shell   Renderer
}

func New(log *slog.Logger, service Service, sh Renderer) *Handler {
	return &Handler{
		log:     log,
		service: service,
		shell:   sh,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"

	guitars, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("failed to list guitars",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		h.shell.Render(w, r, shell.Page{Name: "error", Status: http.StatusInternalServerError})
		return
	}

	h.shell.Render(w, r, shell.Page{Name: "home", Data: PageData{Guitars: guitars}})
}

// APIHandler отдаёт каталог в JSON (GET /api/v1/guitars).
type APIHandler struct {
	log     *slog.Logger
	service Service
}

func NewAPI(log *slog.Logger, service Service) *APIHandler {
	return &APIHandler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог гитар
// @Tags Catalog
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /guitars [get]
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list.api"

	guitars, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("failed to list guitars",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list guitars"))
		return
	}

	render.JSON(w, r, response.OKWithData(guitars))
}
