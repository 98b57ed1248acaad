package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vaibhavs10/llm-mem-finder/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Quantizations() []types.QuantizationInfo
	Estimate(req types.EstimateRequest) (types.EstimateResponse, error)
	Resolve(ctx context.Context, req types.ResolveRequest) (types.ResolveResponse, error)
}

// Metric label values for the kind of estimate.
const (
	kindDirect   = "direct"
	kindResolved = "resolved"
)

// NewMux builds the router: /estimate, /resolve, /quantizations, /healthz, /metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: orDefault(corsAllowedOrigins, []string{"*"}),
			AllowedMethods: orDefault(corsAllowedMethods, []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: orDefault(corsAllowedHeaders, []string{"Content-Type", "X-Log-Level"}),
			MaxAge:         300,
		}))
	}

	h := &handlers{svc: svc}
	r.Get("/estimate", h.estimateQuery)
	r.Post("/estimate", h.estimateJSON)
	r.Get("/resolve", h.resolveQuery)
	r.Post("/resolve", h.resolveJSON)
	r.Get("/quantizations", h.quantizations)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

// estimateQuery godoc
// @Summary      Estimate memory from explicit inputs
// @Tags         estimate
// @Produce      json
// @Param        params    query  number  true   "Parameter count in billions"
// @Param        quant     query  string  true   "Quantization label"
// @Param        context   query  int     false  "Context window in tokens"
// @Param        overhead  query  number  false  "OS overhead in GB"
// @Success      200  {object}  types.EstimateResponse
// @Failure      400  {object}  types.ErrorResponse
// @Router       /estimate [get]
func (h *handlers) estimateQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := strconv.ParseFloat(strings.TrimSpace(q.Get("params")), 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "params must be a number")
		return
	}
	req := types.EstimateRequest{ParametersB: params, Quantization: q.Get("quant")}
	if req.ContextTokens, err = optionalInt(q.Get("context")); err != nil {
		writeJSONError(w, http.StatusBadRequest, "context must be an integer")
		return
	}
	if req.OSOverheadGB, err = optionalFloat(q.Get("overhead")); err != nil {
		writeJSONError(w, http.StatusBadRequest, "overhead must be a number")
		return
	}
	h.estimate(w, req)
}

// estimateJSON godoc
// @Summary      Estimate memory from a JSON body
// @Tags         estimate
// @Accept       json
// @Produce      json
// @Param        body  body      types.EstimateRequest  true  "Estimate inputs"
// @Success      200   {object}  types.EstimateResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      415   {object}  types.ErrorResponse
// @Router       /estimate [post]
func (h *handlers) estimateJSON(w http.ResponseWriter, r *http.Request) {
	var req types.EstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.estimate(w, req)
}

func (h *handlers) estimate(w http.ResponseWriter, req types.EstimateRequest) {
	resp, err := h.svc.Estimate(req)
	if err != nil {
		observeFailure(kindDirect, err)
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	observeEstimate(kindDirect, resp.Quantization, resp.TotalGB)
	writeJSON(w, resp)
}

// resolveQuery godoc
// @Summary      Resolve a registry model and estimate its memory
// @Tags         resolve
// @Produce      json
// @Param        model     query  string  true   "Registry model id, e.g. meta-llama/Llama-2-7b-hf"
// @Param        context   query  int     false  "Context window in tokens"
// @Param        overhead  query  number  false  "OS overhead in GB"
// @Success      200  {object}  types.ResolveResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Router       /resolve [get]
func (h *handlers) resolveQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := types.ResolveRequest{Model: q.Get("model")}
	var err error
	if req.ContextTokens, err = optionalInt(q.Get("context")); err != nil {
		writeJSONError(w, http.StatusBadRequest, "context must be an integer")
		return
	}
	if req.OSOverheadGB, err = optionalFloat(q.Get("overhead")); err != nil {
		writeJSONError(w, http.StatusBadRequest, "overhead must be a number")
		return
	}
	h.resolve(w, r, req)
}

// resolveJSON godoc
// @Summary      Resolve a registry model from a JSON body
// @Tags         resolve
// @Accept       json
// @Produce      json
// @Param        body  body      types.ResolveRequest  true  "Resolve inputs"
// @Success      200   {object}  types.ResolveResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      422   {object}  types.ErrorResponse
// @Failure      502   {object}  types.ErrorResponse
// @Router       /resolve [post]
func (h *handlers) resolveJSON(w http.ResponseWriter, r *http.Request) {
	var req types.ResolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.resolve(w, r, req)
}

func (h *handlers) resolve(w http.ResponseWriter, r *http.Request, req types.ResolveRequest) {
	req.Model = strings.TrimSpace(req.Model)
	if req.Model == "" {
		writeJSONError(w, http.StatusBadRequest, "model is required")
		return
	}
	ctx, cancel := resolveContext(r)
	defer cancel()
	resp, err := h.svc.Resolve(ctx, req)
	if err != nil {
		// Client went away; nothing useful to write.
		if r.Context().Err() != nil {
			return
		}
		observeFailure(kindResolved, err)
		if ctx.Err() == context.DeadlineExceeded {
			writeJSONError(w, http.StatusGatewayTimeout, err.Error())
			return
		}
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	observeEstimate(kindResolved, resp.Quantization, resp.TotalGB)
	writeJSON(w, resp)
}

// quantizations godoc
// @Summary      List supported quantization levels
// @Tags         estimate
// @Produce      json
// @Success      200  {object}  map[string][]types.QuantizationInfo
// @Router       /quantizations [get]
func (h *handlers) quantizations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"quantizations": h.svc.Quantizations()})
}

// decodeJSON enforces the content type and body limit, writing a 4xx on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func optionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
