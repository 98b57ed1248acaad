package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vaibhavs10/llm-mem-finder/internal/resolver"
	"github.com/Vaibhavs10/llm-mem-finder/internal/service"
	"github.com/Vaibhavs10/llm-mem-finder/pkg/types"
)

// cannedProvider serves fixed metadata per model id; unknown ids fail.
type cannedProvider map[string]types.ModelMetadata

func (p cannedProvider) FetchModel(ctx context.Context, id string) (types.ModelMetadata, error) {
	md, ok := p[id]
	if !ok {
		return types.ModelMetadata{}, errors.New("404 from registry")
	}
	return md, nil
}

func newTestMux() http.Handler {
	p := cannedProvider{
		"meta-llama/Llama-2-7b-hf": {},
		"TheBloke/Llama-2-7B-GPTQ": {Files: []types.FileDescriptor{{Suffix: "model-8bit"}, {Suffix: "model-4bit"}}},
		"openai/clip-vit-large":    {},
	}
	return NewMux(service.New(service.Config{Provider: p}))
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestEstimateGet(t *testing.T) {
	w := do(t, newTestMux(), httptest.NewRequest(http.MethodGet, "/estimate?params=7&quant=4-bit&context=2048&overhead=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.EstimateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.TotalGB != 6.524 || body.Quantization != "4-bit" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestEstimateGet_Defaults(t *testing.T) {
	w := do(t, newTestMux(), httptest.NewRequest(http.MethodGet, "/estimate?params=7&quant=fp16", nil))
	var body types.EstimateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.ContextTokens != 2048 || body.OSOverheadGB != 2 {
		t.Fatalf("defaults not applied: %+v", body)
	}
}

func TestEstimateGet_BadInputs(t *testing.T) {
	cases := map[string]int{
		"/estimate?quant=4-bit":                       http.StatusBadRequest,
		"/estimate?params=x&quant=4-bit":              http.StatusBadRequest,
		"/estimate?params=7&quant=7-bit":              http.StatusBadRequest,
		"/estimate?params=7&quant=4-bit&context=many": http.StatusBadRequest,
		"/estimate?params=7&quant=4-bit&context=-1":   http.StatusBadRequest,
		"/estimate?params=-7&quant=4-bit":             http.StatusBadRequest,
		"/estimate?params=7&quant=4-bit&overhead=no":  http.StatusBadRequest,
	}
	h := newTestMux()
	for url, want := range cases {
		w := do(t, h, httptest.NewRequest(http.MethodGet, url, nil))
		if w.Code != want {
			t.Fatalf("%s: status=%d want %d body=%s", url, w.Code, want, w.Body.String())
		}
		var e types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Code != want || e.Error == "" {
			t.Fatalf("%s: bad error payload %q", url, w.Body.String())
		}
	}
}

func TestEstimatePost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString(`{"parameters_b":7,"quantization":"fp16","context_tokens":4096,"os_overhead_gb":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(t, newTestMux(), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.EstimateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.TotalGB != 18.048 {
		t.Fatalf("total=%v", body.TotalGB)
	}
}

func TestEstimatePost_ContentTypeAndJSON(t *testing.T) {
	h := newTestMux()
	req := httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString(`{}`))
	if w := do(t, h, req); w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}
	req = httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString("not-json"))
	req.Header.Set("Content-Type", "application/json")
	if w := do(t, h, req); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	req = httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString(`{"parameters_b":7,"quantization":"4-bit","bogus":1}`))
	req.Header.Set("Content-Type", "application/json")
	if w := do(t, h, req); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", w.Code)
	}
}

func TestEstimatePost_BodyLimit(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)
	req := httptest.NewRequest(http.MethodPost, "/estimate", bytes.NewBufferString(`{"parameters_b":7,"quantization":"4-bit"}`))
	req.Header.Set("Content-Type", "application/json")
	if w := do(t, newTestMux(), req); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", w.Code)
	}
}

func TestResolve(t *testing.T) {
	w := do(t, newTestMux(), httptest.NewRequest(http.MethodGet, "/resolve?model=TheBloke/Llama-2-7B-GPTQ&context=2048", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.ResolveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Quantization != "4-bit" || body.QuantizationSource != resolver.SourceFiles || body.TotalGB != 6.524 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.ParametersSource != resolver.SourceName || body.Parameters != 7e9 {
		t.Fatalf("unexpected parameters: %+v", body)
	}
}

func TestResolvePost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/resolve", bytes.NewBufferString(`{"model":"meta-llama/Llama-2-7b-hf","context_tokens":0,"os_overhead_gb":0}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(t, newTestMux(), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.ResolveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Quantization != "fp32" || body.TotalGB != 28 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestResolve_ErrorMapping(t *testing.T) {
	cases := map[string]int{
		"/resolve":                                           http.StatusBadRequest,
		"/resolve?model=openai/clip-vit-large":               http.StatusUnprocessableEntity,
		"/resolve?model=nobody/missing-7b":                   http.StatusBadGateway,
		"/resolve?model=meta-llama/Llama-2-7b-hf&context=-5": http.StatusBadRequest,
	}
	h := newTestMux()
	for url, want := range cases {
		if w := do(t, h, httptest.NewRequest(http.MethodGet, url, nil)); w.Code != want {
			t.Fatalf("%s: status=%d want %d body=%s", url, w.Code, want, w.Body.String())
		}
	}
}

func TestQuantizations(t *testing.T) {
	w := do(t, newTestMux(), httptest.NewRequest(http.MethodGet, "/quantizations", nil))
	var body map[string][]types.QuantizationInfo
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body["quantizations"]) != 9 {
		t.Fatalf("unexpected: %+v", body)
	}
}

func TestHealthzAndSecurityHeader(t *testing.T) {
	w := do(t, newTestMux(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
}

func TestCORSPreflight(t *testing.T) {
	SetCORSOptions(true, []string{"http://ui.local"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/estimate", nil)
	req.Header.Set("Origin", "http://ui.local")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := do(t, newTestMux(), req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://ui.local" {
		t.Fatalf("allow-origin=%q status=%d", got, w.Code)
	}
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return "teapot" }
func (e statusErr) StatusCode() int { return e.code }

func TestStatusFor(t *testing.T) {
	if got := statusFor(statusErr{code: http.StatusTeapot}); got != http.StatusTeapot {
		t.Fatalf("HTTPError not honoured: %d", got)
	}
	if got := statusFor(errors.New("x")); got != http.StatusInternalServerError {
		t.Fatalf("generic error: %d", got)
	}
	if got := statusFor(resolver.ErrMetadataUnavailable("m", errors.New("x"))); got != http.StatusBadGateway {
		t.Fatalf("metadata unavailable: %d", got)
	}
}
