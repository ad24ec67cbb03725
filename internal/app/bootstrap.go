// Package app assembles the interpreter and its infrastructure from
// configuration. The server and the CLI share it.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"tennis-booking/internal/api"
	"tennis-booking/internal/common/cache"
	"tennis-booking/internal/common/config"
	"tennis-booking/internal/common/logger"
	"tennis-booking/internal/common/observability"
	"tennis-booking/internal/interpreter"
	"tennis-booking/internal/llm"
)

// Services holds the wired application components. Close releases them in
// reverse order of creation.
type Services struct {
	Config        *config.Config
	Interpreter   *interpreter.Interpreter
	Completer     llm.Completer
	Cache         *cache.RedisClient
	Observability *observability.Observability

	closers []func()
}

// Options replaces parts of the wiring, mostly for tests.
type Options struct {
	// Completer skips provider construction when set.
	Completer llm.Completer
	// Resolver overrides the default date resolver chain.
	Resolver interpreter.DateResolver
}

func Bootstrap(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Services, error) {
	s := &Services{Config: cfg}

	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTracing(cfg.Tracing.JaegerEndpoint)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, shutdown)
		log.Info("tracing enabled", map[string]interface{}{"endpoint": cfg.Tracing.JaegerEndpoint})
	}

	s.Observability = observability.New(cfg.Tracing.ServiceName, log)
	s.closers = append(s.closers, s.Observability.Shutdown)

	completer := opts.Completer
	if completer == nil {
		built, err := llm.NewCompleter(ctx, cfg.LLM)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create %s completer: %w", cfg.LLM.Provider, err)
		}
		if closer, ok := built.(io.Closer); ok {
			s.closers = append(s.closers, func() { _ = closer.Close() })
		}
		completer = built
	}

	if cfg.Cache.Enabled {
		s.Cache = cache.NewRedis(cfg.Cache.Redis)
		s.closers = append(s.closers, func() { _ = s.Cache.Close() })

		if err := s.Cache.Ping(ctx); err != nil {
			log.Warn("completion cache unreachable, continuing without hits", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
				"error":   err.Error(),
			})
		}

		completer = llm.NewCachingCompleter(
			completer,
			s.Cache,
			time.Duration(cfg.Cache.TTL)*time.Second,
			cfg.Cache.Prefix,
			log,
		)
	}
	s.Completer = completer

	s.Interpreter = interpreter.New(
		interpreter.LoadConfig(cfg),
		completer,
		opts.Resolver,
		s.Observability,
		log,
	)

	log.Info("interpreter ready", map[string]interface{}{
		"provider": completer.Provider(),
		"model":    cfg.LLM.Model,
		"cache":    cfg.Cache.Enabled,
	})

	return s, nil
}

// ReadinessChecks reports the dependencies the HTTP API should probe.
func (s *Services) ReadinessChecks() map[string]api.ReadinessCheck {
	checks := map[string]api.ReadinessCheck{}
	if s.Cache != nil {
		checks["cache"] = s.Cache.Ping
	}
	return checks
}

func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
