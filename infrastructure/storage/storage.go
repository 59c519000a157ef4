// Package storage selects the request counter registry backend.
package storage

import (
	"errors"
	"fmt"

	"github.com/fllarpy/sampleapp/config"
	"github.com/fllarpy/sampleapp/domain"
	"github.com/fllarpy/sampleapp/infrastructure/storage/inmemory"
	"github.com/fllarpy/sampleapp/infrastructure/storage/promstore"
	"github.com/rs/zerolog"
)

// Backend names accepted in registry.backend.
const (
	BackendPrometheus = "prometheus"
	BackendInMemory   = "inmemory"
)

// ErrUnknownBackend is returned for an unsupported registry.backend value.
var ErrUnknownBackend = errors.New("unknown registry backend")

// NewRegistry builds the registry configured in cfg.
func NewRegistry(cfg config.RegistryConfig, logger zerolog.Logger) (domain.Registry, error) {
	switch cfg.Backend {
	case BackendPrometheus, "":
		return promstore.NewStore(promstore.Options{
			Namespace:         cfg.Namespace,
			RuntimeCollectors: cfg.RuntimeCollectors,
			Logger:            logger,
		})
	case BackendInMemory:
		if cfg.RuntimeCollectors {
			logger.Warn().Msg("runtime collectors are only available with the prometheus backend")
		}
		return inmemory.NewStore(cfg.Namespace), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
