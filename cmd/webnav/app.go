package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/browser"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/chat"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/config"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/tokenizer"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/metrics"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/orchestrator"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/planner"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/summarizer"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/summarizer/export"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/telemetry"
)

// app holds every long-lived component of one webnav process.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	metrics   *metrics.Collector
	telemetry *telemetry.Provider
	launcher  *browser.PlaywrightLauncher
	provider  llm.Provider
	orch      *orchestrator.Orchestrator
	chat      *chat.Manager
}

// newApp loads configuration and wires the pipeline. console, when set,
// also receives log lines in console format.
func newApp(ctx context.Context, configPath string, console io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := logging.Configure(logging.Options{
		Dir:        cfg.Logging.Dir,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
		Console:    console,
	}); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	logger := logging.MustLogger("webnav")

	tp, err := telemetry.Init(ctx, telemetry.Options{
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
	}, logging.MustLogger("telemetry"))
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector()

	base, err := config.BuildProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	provider := llm.Observe(base,
		llm.WithTimeout(cfg.LLM.Timeout),
		llm.WithLogger(logging.MustLogger("llm")),
		llm.WithMetrics(collector),
		llm.WithTokenizer(tokenizer.New()),
	)

	policy, err := browser.NewHostPolicy(cfg.Browser.AllowedHosts, cfg.Browser.BlockedHosts)
	if err != nil {
		return nil, fmt.Errorf("invalid browser host policy: %w", err)
	}

	launcher := browser.NewPlaywrightLauncher(browser.LaunchOptions{
		Headless:       cfg.Browser.Headless,
		TimeoutMS:      cfg.Browser.TimeoutMS,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		UserAgent:      cfg.Browser.UserAgent,
	},
		browser.WithLauncherLogger(logging.MustLogger("browser")),
		browser.WithLauncherMetrics(collector),
	)

	orch := orchestrator.New(
		planner.New(provider, planner.WithLogger(logging.MustLogger("planner"))),
		launcher,
		browser.NewExecutor(
			browser.WithHostPolicy(policy),
			browser.WithSettleDelay(time.Duration(cfg.Browser.SettleMS)*time.Millisecond),
			browser.WithLogger(logging.MustLogger("executor")),
			browser.WithMetrics(collector),
		),
		summarizer.New(provider, export.NewWriter(cfg.Output.Dir),
			summarizer.WithLogger(logging.MustLogger("summarizer")),
			summarizer.WithMetrics(collector),
		),
		orchestrator.WithLogger(logging.MustLogger("orchestrator")),
		orchestrator.WithMetrics(collector),
	)

	name, model := llm.Describe(provider)
	logger.Infof("webnav %s ready: provider=%s model=%s headless=%t output=%s",
		version, name, model, cfg.Browser.Headless, cfg.Output.Dir)

	return &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   collector,
		telemetry: tp,
		launcher:  launcher,
		provider:  provider,
		orch:      orch,
		chat:      chat.NewManager(orch, provider, chat.WithLogger(logging.MustLogger("chat"))),
	}, nil
}

// close releases the browser driver, flushes traces and closes log files.
func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if err := a.launcher.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := a.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := logging.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
