// Package estimator computes the memory needed to hold a model's parameters and
// its context window. Everything here is pure; no I/O and no shared state.
//
// The formula is a fixed approximation:
//
//	total = params*1e9 * bits/8  +  tokens * 0.5e6  +  overhead*1e9   (bytes)
//
// reported in decimal gigabytes (1e9 bytes), unrounded.
package estimator

import (
	"math"
	"strconv"
)

const (
	// DefaultOSOverheadGB is the memory reserved for the OS and runtime.
	DefaultOSOverheadGB = 2.0

	bytesPerGB = 1e9
	// contextBytesPerToken is a flat working-memory allowance, not a KV-cache model.
	contextBytesPerToken = 0.5 * 1e6
)

// Breakdown splits an estimate into its three terms, all in GB.
type Breakdown struct {
	ParametersGB float64
	ContextGB    float64
	OverheadGB   float64
	TotalGB      float64
}

// EstimateMemoryGB returns the estimated memory in GB for a model with
// parametersInBillions parameters stored at quantization q, holding
// contextWindowTokens tokens of context, plus osOverheadGB of fixed overhead.
func EstimateMemoryGB(parametersInBillions float64, q Quantization, contextWindowTokens int, osOverheadGB float64) (float64, error) {
	if err := validate(parametersInBillions, q, contextWindowTokens, osOverheadGB); err != nil {
		return 0, err
	}
	parameters := parametersInBillions * 1e9
	bitsPerParameter := float64(q.BitWidth())
	parameterMemoryBytes := parameters * (bitsPerParameter / 8)
	contextMemoryBytes := float64(contextWindowTokens) * contextBytesPerToken
	totalBytes := parameterMemoryBytes + contextMemoryBytes + osOverheadGB*bytesPerGB
	return totalBytes / bytesPerGB, nil
}

// EstimateMemoryGBLabel is EstimateMemoryGB with the quantization given as a label.
func EstimateMemoryGBLabel(parametersInBillions float64, label string, contextWindowTokens int, osOverheadGB float64) (float64, error) {
	q, err := ParseQuantization(label)
	if err != nil {
		return 0, err
	}
	return EstimateMemoryGB(parametersInBillions, q, contextWindowTokens, osOverheadGB)
}

// Estimate returns the per-term breakdown. TotalGB is always the value
// EstimateMemoryGB returns for the same inputs.
func Estimate(parametersInBillions float64, q Quantization, contextWindowTokens int, osOverheadGB float64) (Breakdown, error) {
	total, err := EstimateMemoryGB(parametersInBillions, q, contextWindowTokens, osOverheadGB)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{
		ParametersGB: parametersInBillions * 1e9 * (float64(q.BitWidth()) / 8) / bytesPerGB,
		ContextGB:    float64(contextWindowTokens) * contextBytesPerToken / bytesPerGB,
		OverheadGB:   osOverheadGB,
		TotalGB:      total,
	}, nil
}

func validate(params float64, q Quantization, tokens int, overhead float64) error {
	if !q.Valid() {
		return ErrInvalidQuantization(strconv.Itoa(int(q)))
	}
	if math.IsNaN(params) || math.IsInf(params, 0) || params < 0 {
		return ErrInvalidInput("parameters must be finite and non-negative")
	}
	if tokens < 0 {
		return ErrInvalidInput("context window must be non-negative")
	}
	if math.IsNaN(overhead) || math.IsInf(overhead, 0) || overhead < 0 {
		return ErrInvalidInput("os overhead must be finite and non-negative")
	}
	return nil
}
