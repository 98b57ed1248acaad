package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Vaibhavs10/llm-mem-finder/internal/common/fsutil"
)

// Provider names accepted in Config.Provider.
const (
	ProviderHF    = "hf"
	ProviderLocal = "local"
)

// Defaults applied by WithDefaults when fields are unset.
const (
	DefaultAddr          = ":8080"
	DefaultContextTokens = 2048
	DefaultOSOverheadGB  = 2.0
	DefaultLogLevel      = "info"
	DefaultTimeoutSec    = 30
)

// Config holds runtime parameters for the CLI and the HTTP service.
// Pointer fields distinguish "unset" from an explicit zero.
type Config struct {
	Addr              string   `json:"addr" yaml:"addr" toml:"addr"`
	Provider          string   `json:"provider" yaml:"provider" toml:"provider"`
	HFBaseURL         string   `json:"hf_base_url" yaml:"hf_base_url" toml:"hf_base_url"`
	HFToken           string   `json:"hf_token" yaml:"hf_token" toml:"hf_token"`
	ModelsDir         string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	OSOverheadGB      *float64 `json:"os_overhead_gb" yaml:"os_overhead_gb" toml:"os_overhead_gb"`
	ContextTokens     *int     `json:"context_tokens" yaml:"context_tokens" toml:"context_tokens"`
	LogLevel          string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	RequestTimeoutSec int      `json:"request_timeout_sec" yaml:"request_timeout_sec" toml:"request_timeout_sec"`
	MaxBodyBytes      int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSEnabled       bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins       []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml. A leading '~' is expanded.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(p), err)
	}
	return cfg, nil
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Provider == "" {
		c.Provider = ProviderHF
	}
	if c.OSOverheadGB == nil {
		v := DefaultOSOverheadGB
		c.OSOverheadGB = &v
	}
	if c.ContextTokens == nil {
		v := DefaultContextTokens
		c.ContextTokens = &v
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = DefaultTimeoutSec
	}
	return c
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderHF:
	case ProviderLocal:
		if c.ModelsDir == "" {
			return fmt.Errorf("provider %q requires models_dir", ProviderLocal)
		}
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if c.OSOverheadGB != nil && *c.OSOverheadGB < 0 {
		return fmt.Errorf("os_overhead_gb must be non-negative")
	}
	if c.ContextTokens != nil && *c.ContextTokens < 0 {
		return fmt.Errorf("context_tokens must be non-negative")
	}
	return nil
}

// ApplyEnv overrides fields from MEMFINDER_* variables (and HF_TOKEN).
// getenv is usually os.Getenv.
func (c Config) ApplyEnv(getenv func(string) string) (Config, error) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("MEMFINDER_ADDR", &c.Addr)
	str("MEMFINDER_PROVIDER", &c.Provider)
	str("MEMFINDER_HF_BASE_URL", &c.HFBaseURL)
	str("HF_TOKEN", &c.HFToken)
	str("MEMFINDER_HF_TOKEN", &c.HFToken)
	str("MEMFINDER_MODELS_DIR", &c.ModelsDir)
	str("MEMFINDER_LOG_LEVEL", &c.LogLevel)
	if v := strings.TrimSpace(getenv("MEMFINDER_OS_OVERHEAD_GB")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, fmt.Errorf("MEMFINDER_OS_OVERHEAD_GB: %w", err)
		}
		c.OSOverheadGB = &f
	}
	if v := strings.TrimSpace(getenv("MEMFINDER_CONTEXT_TOKENS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("MEMFINDER_CONTEXT_TOKENS: %w", err)
		}
		c.ContextTokens = &n
	}
	if v := strings.TrimSpace(getenv("MEMFINDER_CORS_ORIGINS")); v != "" {
		c.CORSEnabled = true
		c.CORSOrigins = SplitCSV(v)
	}
	return c, nil
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
