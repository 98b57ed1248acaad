package types

// EstimateRequest is the body of POST /estimate.
type EstimateRequest struct {
	// Parameter count in billions.
	// example: 7
	ParametersB float64 `json:"parameters_b" example:"7"`
	// Quantization label (1-bit..8-bit, fp16, fp32).
	// example: 4-bit
	Quantization string `json:"quantization" example:"4-bit"`
	// Context window in tokens. Server default applies when omitted.
	// example: 2048
	ContextTokens *int `json:"context_tokens,omitempty" example:"2048"`
	// OS overhead in GB. Server default applies when omitted.
	// example: 2
	OSOverheadGB *float64 `json:"os_overhead_gb,omitempty" example:"2"`
}

// EstimateResponse carries a memory estimate and its breakdown.
type EstimateResponse struct {
	// example: 7
	ParametersB float64 `json:"parameters_b" example:"7"`
	// example: 4-bit
	Quantization string `json:"quantization" example:"4-bit"`
	// example: 4
	BitsPerParameter int `json:"bits_per_parameter" example:"4"`
	// example: 2048
	ContextTokens int `json:"context_tokens" example:"2048"`
	// example: 2
	OSOverheadGB float64 `json:"os_overhead_gb" example:"2"`
	// Memory for the weights in GB.
	// example: 3.5
	ParametersGB float64 `json:"parameters_gb" example:"3.5"`
	// Memory for the context window in GB.
	// example: 1.024
	ContextGB float64 `json:"context_gb" example:"1.024"`
	// Total estimate in decimal GB.
	// example: 6.524
	TotalGB float64 `json:"total_gb" example:"6.524"`
}

// ResolveRequest asks for an estimate derived from a registry model id.
type ResolveRequest struct {
	// example: meta-llama/Llama-2-7b-hf
	Model string `json:"model" example:"meta-llama/Llama-2-7b-hf"`
	// example: 2048
	ContextTokens *int `json:"context_tokens,omitempty" example:"2048"`
	// example: 2
	OSOverheadGB *float64 `json:"os_overhead_gb,omitempty" example:"2"`
}

// ResolveResponse is an estimate plus where its inputs came from.
type ResolveResponse struct {
	// example: meta-llama/Llama-2-7b-hf
	Model string `json:"model" example:"meta-llama/Llama-2-7b-hf"`
	// Raw parameter count used.
	// example: 7000000000
	Parameters float64 `json:"parameters" example:"7000000000"`
	// One of: provider, name.
	// example: name
	ParametersSource string `json:"parameters_source" example:"name"`
	// One of: files, default.
	// example: default
	QuantizationSource string `json:"quantization_source" example:"default"`
	EstimateResponse
}

// QuantizationInfo describes one supported quantization level.
type QuantizationInfo struct {
	// example: 4-bit
	Label string `json:"label" example:"4-bit"`
	// example: 4
	Bits int `json:"bits" example:"4"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid quantization: 7-bit
	Error string `json:"error" example:"invalid quantization: 7-bit"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
