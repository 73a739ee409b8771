// Package consent принимает изменения согласия из модального окна витрины.
package consent

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/guitar-shop/internal/consent"
	"github.com/magabrotheeeer/guitar-shop/internal/http/response"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
)

// Request - выбор покупателя в окне согласия.
type Request struct {
	Categories  map[string]bool `json:"categories" validate:"required,min=1,max=16"`
	AnonymousID string          `json:"anonymousId" validate:"max=64"`
}

// Persister закрепляет сессию запроса за клиентом.
type Persister interface {
	Persist(w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	log       *slog.Logger
	callback  consent.Callback
	persister Persister
	validate  *validator.Validate
}

// New создает новый экземпляр Handler. callback - единственный
// обработчик согласия, созданный при старте оболочки.
func New(log *slog.Logger, callback consent.Callback, persister Persister) *Handler {
	return &Handler{
		log:       log,
		callback:  callback,
		persister: persister,
		validate:  validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменение согласия
// @Tags Consent
// @Accept  json
// @Produce  json
// @Param request body Request true "Категории согласия"
// @Success 200 {object} response.Response "Событие согласия"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /consent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.consent"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
		} else {
			render.JSON(w, r, response.Error("invalid request"))
		}
		return
	}

	anonymousID := req.AnonymousID
	if anonymousID == "" {
		anonymousID = h.sessionAnonymousID(w, r, log)
	}

	ev := h.callback(r.Context(), consent.Event{
		Categories:  req.Categories,
		AnonymousID: anonymousID,
	})
	log.Info("consent changed", slog.Any("categories", ev.Categories.Names()))

	render.JSON(w, r, response.OKWithData(ev))
}

// sessionAnonymousID отдаёт идентификатор сессии как анонимный id.
// Сессия сохраняется, чтобы cookie и id пережили запрос. Без сохранения
// id остаётся пустым.
func (h *Handler) sessionAnonymousID(w http.ResponseWriter, r *http.Request, log *slog.Logger) string {
	if err := h.persister.Persist(w, r); err != nil {
		log.Warn("failed to persist session, anonymous id left empty", sl.Err(err))
		return ""
	}
	return shell.SessionID(r.Context())
}
