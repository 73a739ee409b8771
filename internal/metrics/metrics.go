// Package metrics содержит счётчики prometheus витрины и middleware,
// измеряющий длительность HTTP-запросов.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - набор коллекторов витрины.
type Metrics struct {
	PageRenders     *prometheus.CounterVec
	AuthRedirects   *prometheus.CounterVec
	LoginAttempts   *prometheus.CounterVec
	ConsentChanges  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guitarshop",
			Name:      "page_renders_total",
			Help:      "Rendered storefront pages.",
		}, []string{"page"}),
		AuthRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guitarshop",
			Name:      "auth_redirects_total",
			Help:      "Redirects issued by the authentication gate.",
		}, []string{"from", "to"}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guitarshop",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		ConsentChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guitarshop",
			Name:      "consent_changes_total",
			Help:      "Consent category decisions.",
		}, []string{"category", "granted"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "guitarshop",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	reg.MustRegister(m.PageRenders, m.AuthRedirects, m.LoginAttempts, m.ConsentChanges, m.RequestDuration)
	return m
}

// Middleware измеряет длительность запроса по шаблону маршрута chi.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
