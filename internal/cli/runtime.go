package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/harun/kestrel/internal/config"
	"github.com/harun/kestrel/internal/logger"
	"github.com/harun/kestrel/internal/metrics"
	"github.com/harun/kestrel/pkg/llm"
	"github.com/harun/kestrel/pkg/memstore"
	"github.com/harun/kestrel/pkg/planner"
	"github.com/harun/kestrel/pkg/recovery"
	"github.com/harun/kestrel/pkg/toolregistry"
)

// runtime wires the registry, executor, and supporting services from
// configuration.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *memstore.Store
	registry *toolregistry.Registry
	executor *planner.Executor
}

func newRuntime() (*runtime, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, err
	}

	logCfg := logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	}
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	lg, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}

	var regOpts []toolregistry.Option
	var execOpts []planner.Option

	if cfg.Metrics.Enabled {
		m := metrics.NewMetrics()
		regOpts = append(regOpts, toolregistry.WithObserver(m))
		execOpts = append(execOpts, planner.WithPlanObserver(m))
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, m.Handler()); err != nil {
				log.Error().Err(err).Msg("Metrics endpoint stopped")
			}
		}()
	}

	registry := toolregistry.New(regOpts...)

	store, err := memstore.Open(cfg.Memory.Path)
	if err != nil {
		lg.Close()
		return nil, err
	}
	if err := memstore.RegisterTools(registry, store); err != nil {
		store.Close()
		lg.Close()
		return nil, err
	}

	if cfg.Recovery.Provider != "" {
		policy, err := buildRecoveryPolicy(cfg.Recovery)
		if err != nil {
			store.Close()
			lg.Close()
			return nil, err
		}
		execOpts = append(execOpts, planner.WithRecoveryPolicy(policy))
	}
	if cfg.History.Capacity > 0 {
		execOpts = append(execOpts, planner.WithHistoryCapacity(cfg.History.Capacity))
	}

	return &runtime{
		cfg:      cfg,
		log:      lg,
		store:    store,
		registry: registry,
		executor: planner.NewExecutor(registry, execOpts...),
	}, nil
}

func buildRecoveryPolicy(cfg config.RecoveryConfig) (planner.RecoveryPolicy, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("recovery enabled but %s is not set", cfg.APIKeyEnv)
	}
	provider, err := llm.NewProvider(cfg.Provider, apiKey)
	if err != nil {
		return nil, err
	}
	return recovery.NewLLMPolicy(provider,
		recovery.WithModel(cfg.Model),
		recovery.WithMaxTokens(cfg.MaxTokens),
	), nil
}

func (r *runtime) close() {
	r.store.Close()
	r.log.Close()
}
