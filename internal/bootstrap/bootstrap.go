package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/mlobankov/resume-pilot/internal/adapters/navguard"
	"github.com/mlobankov/resume-pilot/internal/config"
	"github.com/mlobankov/resume-pilot/internal/core/domain"
	"github.com/mlobankov/resume-pilot/internal/core/ports"
	"github.com/mlobankov/resume-pilot/internal/core/usecase"
	"github.com/mlobankov/resume-pilot/internal/infrastructure/api"
	"github.com/mlobankov/resume-pilot/internal/infrastructure/credstore"
	"github.com/mlobankov/resume-pilot/internal/infrastructure/resilience"
	"github.com/mlobankov/resume-pilot/internal/observability/logging"
	"github.com/mlobankov/resume-pilot/internal/observability/metrics"
)

const serviceName = "resume-pilot"

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.ClientMetrics

	Session *usecase.SessionManager
	Library *usecase.ResumeLibrary
	Poller  *usecase.Poller
	AI      ports.AIGateway
	Guard   *navguard.Guard

	closeFn func()
}

func New(cfg config.Config) (*App, error) {
	logger := logging.New(serviceName, cfg.LogLevel, cfg.LogFormat)

	tokens, err := credstore.New(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("init credential store: %w", err)
	}

	clientMetrics := metrics.NewClientMetrics(serviceName)

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    cfg.RetryMaxAttempts,
		RetryInitialBackoff: cfg.RetryInitialBackoff,
		RetryMaxBackoff:     cfg.RetryMaxBackoff,
		BreakerEnabled:      cfg.BreakerEnabled,
	}, logger)

	client := api.New(cfg.APIBaseURL, api.Options{
		HTTPTimeout: cfg.HTTPTimeout,
		Tokens:      tokens,
		Executor:    executor,
		Metrics:     clientMetrics,
		Logger:      logger,
	})

	session := usecase.NewSessionManager(client, tokens, logger)
	// Wired after construction: the transport tears the session down on a
	// 401, and the session manager talks through the transport.
	client.SetUnauthorizedHook(session.ForceTeardown)

	library := usecase.NewResumeLibrary(client, logger)
	library.SetTransitionObserver(func(status domain.ResumeStatus) {
		clientMetrics.RecordTransition(string(status))
	})

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: clientMetrics,
		Session: session,
		Library: library,
		Poller:  usecase.NewPoller(cfg.PollInterval, cfg.PollTimeout),
		AI:      client,
		Guard:   navguard.New(session),

		closeFn: client.CloseIdleConnections,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
