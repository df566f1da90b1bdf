package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nexthire/nexthire/internal/app"
	"github.com/nexthire/nexthire/internal/clock"
	"github.com/nexthire/nexthire/internal/dailyquiz"
	"github.com/nexthire/nexthire/internal/llm"
	"github.com/nexthire/nexthire/internal/logging"
	"github.com/nexthire/nexthire/internal/metrics"
	"github.com/nexthire/nexthire/internal/netcheck"
	"github.com/nexthire/nexthire/internal/orchestrator"
	"github.com/nexthire/nexthire/internal/practice"
	"github.com/nexthire/nexthire/internal/questiongen"
	"github.com/nexthire/nexthire/internal/store"
	"github.com/nexthire/nexthire/internal/tracker"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()
	logger.Info("starting", zap.String("version", version), zap.String("config", cfg.File))

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	provider, err := newProvider(ctx, cfg.LLM, st.EventRepo(), logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	orch := orchestrator.New(questiongen.New(provider, questiongen.DefaultConfig()), orchestrator.Options{
		BatchDelay: cfg.Daily.BatchDelay,
		Logger:     logger.Named("orchestrator"),
		Metrics:    m,
	})
	tr := tracker.New(st.ScoreStore(), clock.NewCalendar(clock.System{}, time.UTC), logger.Named("tracker"))
	var network netcheck.Checker = netcheck.DialChecker{Addr: cfg.ProbeAddr(), Timeout: cfg.Network.Timeout}
	if cfg.LLM.Provider == "mock" {
		network = netcheck.Always
	}

	return app.Run(app.Options{
		UserID:  cfg.UserID,
		Tracker: tr,
		NewSession: func() *practice.Session {
			return practice.New(orch, tr, practice.Options{
				UserID:  cfg.UserID,
				Network: network,
				Logger:  logger.Named("practice"),
				Metrics: m,
			})
		},
		NewQuiz: func() *dailyquiz.Quiz {
			return dailyquiz.New(orch, tr, dailyquiz.Options{
				UserID:  cfg.UserID,
				Network: network,
				Logger:  logger.Named("dailyquiz"),
				Metrics: m,
			})
		},
		Logger: logger,
	})
}

// newProvider builds the configured provider. The mock provider answers
// from the built-in demo pool so the app runs offline.
func newProvider(ctx context.Context, cfg llm.Config, repo store.EventRepo, logger *zap.Logger) (llm.Provider, error) {
	if cfg.Provider != "mock" {
		return llm.NewProvider(ctx, cfg, repo, logger)
	}
	mock := llm.NewMockProvider()
	mock.Fallback = questiongen.NewDemoResponder()
	return llm.Wrap(mock, cfg, repo, logger), nil
}

