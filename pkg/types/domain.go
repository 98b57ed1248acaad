package types

import (
	"path"
	"strings"
)

// FileDescriptor is one file listed by a model registry.
type FileDescriptor struct {
	// File name relative to the repository root.
	// example: model-q4_k_m.gguf
	Name string `json:"name" yaml:"name" example:"model-q4_k_m.gguf"`
	// Suffix tag used for quantization detection (lowercased stem).
	// example: model-q4_k_m
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty" example:"model-q4_k_m"`
}

// ModelMetadata is what a metadata provider knows about a model. Both fields are optional.
type ModelMetadata struct {
	// Raw parameter count (not in billions). Nil when the registry does not report one.
	// example: 6738415616
	Parameters *float64 `json:"parameters,omitempty" yaml:"parameters,omitempty" example:"6738415616"`
	// Files in the model repository, in registry order.
	Files []FileDescriptor `json:"files,omitempty" yaml:"files,omitempty"`
}

// NewFileDescriptor builds a descriptor for a repository file, deriving the
// suffix tag from its base name.
func NewFileDescriptor(name string) FileDescriptor {
	return FileDescriptor{Name: name, Suffix: SuffixTag(name)}
}

// SuffixTag returns the lowercased base name of a file without its extension.
func SuffixTag(name string) string {
	base := path.Base(name)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.ToLower(base)
}
