package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vaibhavs10/llm-mem-finder/internal/config"
	"github.com/Vaibhavs10/llm-mem-finder/internal/hfapi"
	"github.com/Vaibhavs10/llm-mem-finder/internal/registry"
	"github.com/Vaibhavs10/llm-mem-finder/internal/resolver"
)

// newProvider returns the metadata provider named by cfg.Provider.
func newProvider(cfg config.Config, log zerolog.Logger) (resolver.Provider, error) {
	switch cfg.Provider {
	case "", config.ProviderHF:
		c := hfapi.NewClient(
			hfapi.WithToken(cfg.HFToken),
			hfapi.WithLogger(log),
			hfapi.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second}),
		)
		c.SetBaseURL(cfg.HFBaseURL)
		return c, nil
	case config.ProviderLocal:
		d, err := registry.LoadDir(cfg.ModelsDir)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("root", d.Root()).Int("models", len(d.IDs())).Msg("local registry loaded")
		return d, nil
	}
	return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
}
