package login

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/guitar-shop/internal/http/response"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/metrics"
	"github.com/magabrotheeeer/guitar-shop/internal/services/auth"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
)

// APIHandler обрабатывает вход через JSON API (POST /api/v1/login).
type APIHandler struct {
	log      *slog.Logger
	service  Service
	shell    Shell
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// NewAPI создает новый экземпляр APIHandler.
func NewAPI(log *slog.Logger, service Service, sh Shell, m *metrics.Metrics) *APIHandler {
	return &APIHandler{
		log:      log,
		service:  service,
		shell:    sh,
		metrics:  m,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход покупателя
// @Description Проверяет email и пароль, отмечает сессию вошедшей и возвращает её снапшот.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные покупателя"
// @Success 200 {object} response.Response "Снапшот сессии"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login.api"

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

	store, ok := shell.Session(r.Context())
	if !ok {
		log.Error("session store is missing", sl.Err(shell.ErrNoRegistry))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	identity, err := h.service.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info("invalid credentials")
		h.observe(resultInvalid)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		h.observe(resultError)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	store.Login(identity)
	if err := h.shell.Persist(w, r); err != nil {
		log.Error("failed to persist session", sl.Err(err))
		h.observe(resultError)
		store.Logout()
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	h.observe(resultSuccess)
	log.Info("login success")
	render.JSON(w, r, response.OKWithData(store.Snapshot()))
}

func (h *APIHandler) observe(result string) {
	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues(result).Inc()
	}
}
