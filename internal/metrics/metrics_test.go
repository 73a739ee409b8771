package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PageRenders.WithLabelValues("account").Inc()
	m.AuthRedirects.WithLabelValues("/account", "/login").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageRenders.WithLabelValues("account")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthRedirects.WithLabelValues("/account", "/login")))

	assert.Panics(t, func() { New(reg) }, "double registration must fail")
}

func TestMiddleware_ObservesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/guitars/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/guitars/42", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	count, err := testutil.GatherAndCount(reg, "guitarshop_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	var labels map[string]string
	for _, f := range families {
		if f.GetName() != "guitarshop_http_request_duration_seconds" {
			continue
		}
		labels = map[string]string{}
		for _, l := range f.GetMetric()[0].GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
	}
	assert.Equal(t, map[string]string{"route": "/guitars/{id}", "method": "GET", "status": "418"}, labels)
}
