// Package service binds the estimator and resolver to request defaults and
// response payloads. It is what the HTTP layer and the CLI call.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Vaibhavs10/llm-mem-finder/internal/estimator"
	"github.com/Vaibhavs10/llm-mem-finder/internal/resolver"
	"github.com/Vaibhavs10/llm-mem-finder/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const defaultContextTokens = 2048

// Config encapsulates Service construction.
type Config struct {
	Provider resolver.Provider
	// Applied when a request omits the field. Nil means package defaults.
	ContextTokens *int
	OSOverheadGB  *float64
	Logger        zerolog.Logger
}

// Service answers estimate and resolve requests. Safe for concurrent use.
type Service struct {
	resolver      *resolver.Resolver
	contextTokens int
	overheadGB    float64
	log           zerolog.Logger
}

// New constructs a Service from Config.
func New(cfg Config) *Service {
	s := &Service{
		resolver:      resolver.NewWithConfig(resolver.Config{Provider: cfg.Provider, Logger: cfg.Logger}),
		contextTokens: defaultContextTokens,
		overheadGB:    estimator.DefaultOSOverheadGB,
		log:           cfg.Logger,
	}
	if cfg.ContextTokens != nil {
		s.contextTokens = *cfg.ContextTokens
	}
	if cfg.OSOverheadGB != nil {
		s.overheadGB = *cfg.OSOverheadGB
	}
	return s
}

// Quantizations lists supported levels and their bit widths.
func (s *Service) Quantizations() []types.QuantizationInfo {
	qs := estimator.Quantizations()
	out := make([]types.QuantizationInfo, 0, len(qs))
	for _, q := range qs {
		out = append(out, types.QuantizationInfo{Label: q.String(), Bits: q.BitWidth()})
	}
	return out
}

// Estimate computes memory for fully specified inputs.
func (s *Service) Estimate(req types.EstimateRequest) (types.EstimateResponse, error) {
	q, err := estimator.ParseQuantization(req.Quantization)
	if err != nil {
		return types.EstimateResponse{}, err
	}
	return s.estimate(req.ParametersB, q, s.ctxOr(req.ContextTokens), s.overheadOr(req.OSOverheadGB))
}

// Resolve derives inputs from the metadata provider and estimates memory.
// The total equals resolver.ResolveAndEstimate for the same arguments.
func (s *Service) Resolve(ctx context.Context, req types.ResolveRequest) (types.ResolveResponse, error) {
	res, err := s.resolver.Resolve(ctx, req.Model)
	if err != nil {
		s.log.Debug().Err(err).Str("model", req.Model).Msg("resolve failed")
		return types.ResolveResponse{}, err
	}
	est, err := s.estimate(res.ParametersInBillions(), res.Quantization, s.ctxOr(req.ContextTokens), s.overheadOr(req.OSOverheadGB))
	if err != nil {
		return types.ResolveResponse{}, err
	}
	return types.ResolveResponse{
		Model:              res.Model,
		Parameters:         res.Parameters,
		ParametersSource:   res.ParametersSource,
		QuantizationSource: res.QuantizationSource,
		EstimateResponse:   est,
	}, nil
}

func (s *Service) estimate(paramsB float64, q estimator.Quantization, tokens int, overhead float64) (types.EstimateResponse, error) {
	b, err := estimator.Estimate(paramsB, q, tokens, overhead)
	if err != nil {
		return types.EstimateResponse{}, err
	}
	return types.EstimateResponse{
		ParametersB:      paramsB,
		Quantization:     q.String(),
		BitsPerParameter: q.BitWidth(),
		ContextTokens:    tokens,
		OSOverheadGB:     overhead,
		ParametersGB:     b.ParametersGB,
		ContextGB:        b.ContextGB,
		TotalGB:          b.TotalGB,
	}, nil
}

func (s *Service) ctxOr(v *int) int {
	if v != nil {
		return *v
	}
	return s.contextTokens
}

func (s *Service) overheadOr(v *float64) float64 {
	if v != nil {
		return *v
	}
	return s.overheadGB
}
