package cli

import (
	"fmt"

	"log/slog"

	voltwiz "github.com/voltwiz/voltwiz"
	"github.com/voltwiz/voltwiz/internal/agent"
	"github.com/voltwiz/voltwiz/internal/logging"
	"github.com/voltwiz/voltwiz/pkg/adapters/agentstub"
	"github.com/voltwiz/voltwiz/pkg/adapters/memory"
	redisAdapter "github.com/voltwiz/voltwiz/pkg/adapters/redis"
	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/persistence/middleware"
	"github.com/voltwiz/voltwiz/pkg/ports"
	"github.com/voltwiz/voltwiz/pkg/schema"
)

// BuildWizard assembles a Wizard from configuration: reasoning client,
// session store, wizard schema, and logging. The returned cleanup releases
// any external connections and is safe to call once.
func BuildWizard(cfg *Config, hooks ...*domain.LifecycleHooks) (*voltwiz.Wizard, *slog.Logger, func(), error) {
	logger := logging.New(cfg.LogLevel())
	cleanup := func() {}

	client, err := buildClient(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []voltwiz.Option{voltwiz.WithLogger(logger)}

	var store ports.SessionStore = memory.NewStore()
	if cfg.Redis.Addr != "" {
		redisStore := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithTTL(cfg.Redis.TTL))
		locker := redisAdapter.NewLocker(redisStore.Client(), "voltwiz:")
		opts = append(opts, voltwiz.WithLocker(locker))
		cleanup = func() { redisStore.Close() }
		store = redisStore
		logger.Info("Using Redis session store", "addr", cfg.Redis.Addr)
	}

	store, err = hardenStore(store, cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	opts = append(opts, voltwiz.WithStore(store))

	if cfg.SchemaPath != "" {
		wizard, err := schema.Load(cfg.SchemaPath)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("failed to load wizard schema: %w", err)
		}
		opts = append(opts, voltwiz.WithSchema(wizard))
	}

	if cfg.History.Limit > 0 {
		opts = append(opts, voltwiz.WithHistoryLimit(cfg.History.Limit))
	}
	if cfg.Agent.Timeout > 0 {
		opts = append(opts, voltwiz.WithRoleTimeout(cfg.Agent.Timeout))
	}
	for _, h := range hooks {
		opts = append(opts, voltwiz.WithHooks(h))
	}

	wiz, err := voltwiz.New(client, opts...)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return wiz, logger, cleanup, nil
}

// hardenStore applies the configured persistence middlewares so PII is
// masked before encryption and the backend only sees ciphertext.
func hardenStore(store ports.SessionStore, cfg *Config, logger *slog.Logger) (ports.SessionStore, error) {
	var mws []middleware.Middleware

	if len(cfg.Persistence.PIIPatterns) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.Persistence.PIIPatterns))
		logger.Info("PII masking enabled", "patterns", len(cfg.Persistence.PIIPatterns))
	}

	if key := cfg.Persistence.EncryptionKey; key != "" {
		if len(key) != 32 {
			return nil, fmt.Errorf("persistence.encryptionKey must be 32 bytes, got %d", len(key))
		}
		fallbacks := make([][]byte, 0, len(cfg.Persistence.FallbackKeys))
		for _, fk := range cfg.Persistence.FallbackKeys {
			if len(fk) != 32 {
				return nil, fmt.Errorf("persistence.fallbackKeys entries must be 32 bytes, got %d", len(fk))
			}
			fallbacks = append(fallbacks, []byte(fk))
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    []byte(key),
			FallbackKeys: fallbacks,
		}))
		logger.Info("Session encryption at rest enabled")
	}

	return middleware.Chain(store, mws...), nil
}

func buildClient(cfg *Config, logger *slog.Logger) (ports.ReasoningClient, error) {
	if cfg.Agent.Demo {
		logger.Info("Using built-in demo reasoning stub")
		return agentstub.NewDemo(), nil
	}
	if cfg.Agent.URL == "" {
		return nil, fmt.Errorf("agent.url is not configured (or set agent.demo: true)")
	}
	return agent.New(cfg.Agent.URL,
		agent.WithAPIKey(cfg.Agent.APIKey),
		agent.WithLogger(logging.Component(logger, "agent")),
	), nil
}
