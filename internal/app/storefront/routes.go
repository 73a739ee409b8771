package storefront

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	// Регистрация описания API для swagger UI.
	_ "github.com/magabrotheeeer/guitar-shop/docs"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/account"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/catalog/list"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/catalog/read"
	consenthandler "github.com/magabrotheeeer/guitar-shop/internal/http/handlers/consent"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/health"
	sessionhandler "github.com/magabrotheeeer/guitar-shop/internal/http/handlers/session"
	"github.com/magabrotheeeer/guitar-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/guitar-shop/internal/metrics"
	authservice "github.com/magabrotheeeer/guitar-shop/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/guitar-shop/internal/services/catalog"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
)

const (
	// Попытки входа: одна в секунду, до пяти подряд.
	loginRate  = rate.Limit(1)
	loginBurst = 5
)

// Deps - зависимости, нужные маршрутам витрины.
type Deps struct {
	Logger   *slog.Logger
	Shell    *shell.Shell
	Auth     *authservice.Service
	Catalog  *catalogservice.Service
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Checkers map[string]health.Checker
}

// RegisterRoutes регистрирует все маршруты витрины.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		d.Metrics.Middleware,
	)

	loginLimit := middlewarectx.RateLimitMiddleware(d.Logger, loginRate, loginBurst)
	loginHandler := login.New(d.Logger, d.Auth, d.Shell, d.Metrics)

	// Страницы витрины: реестр хранилищ поднимается на каждый запрос.
	r.Group(func(r chi.Router) {
		r.Use(d.Shell.Bootstrap)

		r.Get("/", list.New(d.Logger, d.Catalog, d.Shell).ServeHTTP)
		r.Get("/guitars/{id}", read.New(d.Logger, d.Catalog, d.Shell).ServeHTTP)
		r.Get("/login", loginHandler.Form)
		r.With(loginLimit).Post("/login", loginHandler.ServeHTTP)
		r.Get("/account", account.New(d.Logger, d.Shell, d.Metrics).ServeHTTP)
		r.Post("/account/logout", account.NewLogout(d.Logger, d.Shell).ServeHTTP)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки без сессии
		r.Post("/register", register.New(d.Logger, d.Auth).ServeHTTP)
		r.Get("/guitars", list.NewAPI(d.Logger, d.Catalog).ServeHTTP)

		// Конечные точки, работающие с сессией покупателя
		r.Group(func(r chi.Router) {
			r.Use(d.Shell.Bootstrap)
			r.With(loginLimit).Post("/login", login.NewAPI(d.Logger, d.Auth, d.Shell, d.Metrics).ServeHTTP)
			r.Post("/logout", logout.New(d.Logger, d.Shell).ServeHTTP)
			r.Get("/session", sessionhandler.New(d.Logger).ServeHTTP)
			r.Post("/consent", consenthandler.New(d.Logger, d.Shell.ConsentCallback(), d.Shell).ServeHTTP)
		})
	})

	r.Get("/health", health.New(d.Logger, d.Checkers).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.NotFound(d.Shell.Bootstrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.Shell.Render(w, r, shell.Page{Name: "not_found", Title: "Not Found", Status: http.StatusNotFound})
	})).ServeHTTP)
}
