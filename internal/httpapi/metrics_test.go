package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func scrape(t *testing.T) []byte {
	t.Helper()
	mrr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	return mrr.Body.Bytes()
}

func preview(b []byte) string {
	if len(b) > 400 {
		b = b[:400]
	}
	return string(b)
}

// TestMetricsMiddleware_UsesRoutePattern ensures the path label is the chi
// route pattern rather than the raw URL.
func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := scrape(t)
	if !bytes.Contains(body, []byte("memfinder_http_requests_total")) || !bytes.Contains(body, []byte(`path="/things/{id}"`)) {
		t.Fatalf("expected route pattern label; got: %q", preview(body))
	}
	if bytes.Contains(body, []byte(`path="/things/42"`)) {
		t.Fatalf("raw path leaked into labels")
	}
}

func TestEstimateMetrics(t *testing.T) {
	h := newTestMux()
	do(t, h, httptest.NewRequest(http.MethodGet, "/estimate?params=7&quant=8-bit", nil))
	do(t, h, httptest.NewRequest(http.MethodGet, "/estimate?params=7&quant=7-bit", nil))
	body := scrape(t)
	for _, want := range []string{
		`memfinder_estimator_estimates_total{kind="direct",quantization="8-bit"}`,
		`memfinder_estimator_failures_total{kind="direct",reason="invalid_quantization"}`,
		"memfinder_estimator_estimated_gb_bucket",
	} {
		if !bytes.Contains(body, []byte(want)) {
			t.Fatalf("missing %s in metrics", want)
		}
	}
}
