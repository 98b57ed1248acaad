// Package resolver turns a registry model identifier into a memory estimate.
//
// Resolution runs in three steps:
//
//   - Fetch metadata from a Provider. Any provider failure aborts with a
//     MetadataUnavailable error.
//   - Take the parameter count from the provider, or else from the identifier
//     ("7b" then "350m"). If both are missing the result is UnresolvableParameterCount.
//   - Pick a quantization from the listed files (4-bit > 8-bit > fp16), defaulting
//     to fp32, and hand everything to the estimator.
//
// A Resolver holds no mutable state and never caches or retries.
package resolver

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/Vaibhavs10/llm-mem-finder/internal/estimator"
	"github.com/Vaibhavs10/llm-mem-finder/pkg/types"
)

// Provider fetches registry metadata for a model identifier.
type Provider interface {
	FetchModel(ctx context.Context, id string) (types.ModelMetadata, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, id string) (types.ModelMetadata, error)

func (f ProviderFunc) FetchModel(ctx context.Context, id string) (types.ModelMetadata, error) {
	return f(ctx, id)
}

// Where a resolved input came from.
const (
	SourceProvider = "provider"
	SourceName     = "name"
	SourceFiles    = "files"
	SourceDefault  = "default"
)

// DefaultQuantization is assumed when no file carries a quantization tag.
const DefaultQuantization = estimator.FP32

// Resolution is the outcome of metadata lookup before estimation.
type Resolution struct {
	Model              string
	Parameters         float64
	ParametersSource   string
	Quantization       estimator.Quantization
	QuantizationSource string
}

// ParametersInBillions converts the raw count for the estimator.
func (r Resolution) ParametersInBillions() float64 { return r.Parameters / 1e9 }

// Config holds Resolver dependencies.
type Config struct {
	Provider Provider
	Logger   zerolog.Logger
}

// Resolver derives estimator inputs from registry metadata.
type Resolver struct {
	provider Provider
	log      zerolog.Logger
}

// New constructs a Resolver with a no-op logger.
func New(p Provider) *Resolver {
	return NewWithConfig(Config{Provider: p, Logger: zerolog.Nop()})
}

// NewWithConfig constructs a Resolver from Config.
func NewWithConfig(cfg Config) *Resolver {
	return &Resolver{provider: cfg.Provider, log: cfg.Logger}
}

// Resolve fetches metadata for id and determines the parameter count and quantization.
func (r *Resolver) Resolve(ctx context.Context, id string) (Resolution, error) {
	if r.provider == nil {
		return Resolution{}, ErrMetadataUnavailable(id, errNoProvider)
	}
	md, err := r.provider.FetchModel(ctx, id)
	if err != nil {
		return Resolution{}, ErrMetadataUnavailable(id, err)
	}

	res := Resolution{Model: id}
	switch {
	case md.Parameters != nil && validCount(*md.Parameters):
		res.Parameters, res.ParametersSource = *md.Parameters, SourceProvider
	default:
		n, ok := ParametersFromName(id)
		if !ok {
			return Resolution{}, ErrUnresolvableParameterCount(id)
		}
		res.Parameters, res.ParametersSource = n, SourceName
	}

	if q, ok := QuantizationFromFiles(md.Files); ok {
		res.Quantization, res.QuantizationSource = q, SourceFiles
	} else {
		res.Quantization, res.QuantizationSource = DefaultQuantization, SourceDefault
	}

	r.log.Debug().
		Str("model", id).
		Float64("parameters", res.Parameters).
		Str("parameters_source", res.ParametersSource).
		Str("quantization", res.Quantization.String()).
		Str("quantization_source", res.QuantizationSource).
		Int("files", len(md.Files)).
		Msg("resolved model metadata")
	return res, nil
}

// ResolveAndEstimate resolves id and returns the estimated memory in GB.
func (r *Resolver) ResolveAndEstimate(ctx context.Context, id string, contextWindowTokens int, osOverheadGB float64) (float64, error) {
	res, err := r.Resolve(ctx, id)
	if err != nil {
		return 0, err
	}
	return estimator.EstimateMemoryGB(res.ParametersInBillions(), res.Quantization, contextWindowTokens, osOverheadGB)
}

func validCount(n float64) bool {
	return n > 0 && !math.IsInf(n, 0) && !math.IsNaN(n)
}
