// Package read показывает страницу одной гитары.
package read

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/models"
	"github.com/magabrotheeeer/guitar-shop/internal/services/catalog"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
)

// Service описывает чтение гитары из каталога.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Guitar, error)
	DescriptionHTML(g models.Guitar) template.HTML
}

// Renderer рисует страницу в каркасе витрины.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, page shell.Page)
}

// PageData - данные шаблона страницы гитары.
type PageData struct {
	Guitar      models.Guitar
	Description template.HTML
}

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
	const op = "handlers.catalog.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		log.Info("invalid guitar id", slog.String("id", chi.URLParam(r, "id")))
		h.shell.Render(w, r, shell.Page{Name: "not_found", Title: "Not found", Status: http.StatusNotFound})
		return
	}

	g, err := h.service.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		h.shell.Render(w, r, shell.Page{
			Name:   "not_found",
			Title:  "Not found",
			Status: http.StatusNotFound,
			Data:   "This guitar is no longer in our catalog.",
		})
		return
	}
	if err != nil {
		log.Error("failed to read guitar", slog.Int64("id", id), sl.Err(err))
		h.shell.Render(w, r, shell.Page{Name: "error", Status: http.StatusInternalServerError})
		return
	}

	h.shell.Render(w, r, shell.Page{
		Name:  "guitar",
		Title: g.Manufacturer + " " + g.Model,
		Data: PageData{
			Guitar:      *g,
			Description: h.service.DescriptionHTML(*g),
		},
	})
}
