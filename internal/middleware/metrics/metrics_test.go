package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/users/{address}/messages", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	counter := requestsTotal.WithLabelValues(http.MethodGet, "/users/{address}/messages", "200")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/0xabc/messages", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMiddlewareRecordsErrorStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	counter := requestsTotal.WithLabelValues(http.MethodGet, "/boom", "502")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMiddlewareDefaultsUnwrittenStatusToOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/quiet", func(w http.ResponseWriter, req *http.Request) {})

	counter := requestsTotal.WithLabelValues(http.MethodGet, "/quiet", "200")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quiet", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
