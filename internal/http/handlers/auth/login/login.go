// Package login реализует вход покупателя: HTML-форму и JSON API.
//
// Учётные данные проверяет Service, после чего данные покупателя
// записываются в хранилище сессии запроса, а снапшот сохраняется оболочкой.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/guitar-shop/internal/http/response"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/metrics"
	"github.com/magabrotheeeer/guitar-shop/internal/navigation"
	"github.com/magabrotheeeer/guitar-shop/internal/services/auth"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

const (
	resultSuccess = "success"
	resultInvalid = "invalid"
	resultError   = "error"
)

// Request - учётные данные покупателя.
type Request struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// Service описывает проверку учётных данных.
type Service interface {
	Login(ctx context.Context, email, password string) (stores.Identity, error)
}

// Shell описывает часть оболочки, нужную входу.
type Shell interface {
	Render(w http.ResponseWriter, r *http.Request, page shell.Page)
	Persist(w http.ResponseWriter, r *http.Request) error
}

// FormData - данные шаблона формы входа.
type FormData struct {
	Email  string
	Errors []string
}

// Handler обрабатывает отправку HTML-формы входа (POST /login).
type Handler struct {
	log      *slog.Logger
	service  Service
	shell    Shell
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sh Shell, m *metrics.Metrics) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		shell:    sh,
		metrics:  m,
		validate: validator.New(),
	}
}

// Form показывает форму входа (GET /login). Вошедшего покупателя
// сразу уводит в кабинет.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	store, ok := shell.Session(r.Context())
	if ok && store.LoggedIn() {
		nav := navigation.NewRecorder()
		nav.Push(navigation.Account)
		nav.Commit(w, r)
		return
	}
	h.shell.Render(w, r, shell.Page{Name: "login", Title: "Login", Data: FormData{}})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	renderForm := func(status int, email string, errs ...string) {
		h.shell.Render(w, r, shell.Page{
			Name:   "login",
			Title:  "Login",
			Status: status,
			Data:   FormData{Email: email, Errors: errs},
		})
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		renderForm(http.StatusBadRequest, "", "invalid form")
		return
	}
	req := Request{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			renderForm(http.StatusUnprocessableEntity, req.Email, response.ValidationMessages(verrs)...)
		} else {
			renderForm(http.StatusUnprocessableEntity, req.Email, "invalid form")
		}
		return
	}

	store, ok := shell.Session(r.Context())
	if !ok {
		log.Error("session store is missing", sl.Err(shell.ErrNoRegistry))
		h.shell.Render(w, r, shell.Page{Name: "error", Status: http.StatusInternalServerError})
		return
	}

	identity, err := h.service.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info("invalid credentials")
		h.observe(resultInvalid)
		renderForm(http.StatusUnauthorized, req.Email, "Invalid email or password")
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		h.observe(resultError)
		h.shell.Render(w, r, shell.Page{Name: "error", Status: http.StatusInternalServerError})
		return
	}

	store.Login(identity)
	if err := h.shell.Persist(w, r); err != nil {
		log.Error("failed to persist session", sl.Err(err))
		h.observe(resultError)
		store.Logout()
		h.shell.Render(w, r, shell.Page{Name: "error", Status: http.StatusInternalServerError})
		return
	}

	h.observe(resultSuccess)
	log.Info("login success")
	nav := navigation.NewRecorder()
	nav.Push(navigation.Account)
	nav.Commit(w, r)
}

func (h *Handler) observe(result string) {
	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues(result).Inc()
	}
}
