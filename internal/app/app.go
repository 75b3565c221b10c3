package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/handlers"
	"github.com/ternarybob/indago/internal/interfaces"
	"github.com/ternarybob/indago/internal/services/analysis"
	"github.com/ternarybob/indago/internal/services/events"
	"github.com/ternarybob/indago/internal/services/feedback"
	"github.com/ternarybob/indago/internal/services/insights"
	"github.com/ternarybob/indago/internal/services/learning"
	"github.com/ternarybob/indago/internal/services/reports"
	"github.com/ternarybob/indago/internal/services/roles"
	"github.com/ternarybob/indago/internal/services/scheduler"
	"github.com/ternarybob/indago/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Event-driven services
	EventService     interfaces.EventService
	SchedulerService interfaces.SchedulerService

	// Pipeline services
	AnalysisService *analysis.Service
	InsightService  *insights.Service
	RoleService     *roles.Service
	FeedbackService *feedback.Service
	LearningEngine  *learning.Engine
	ReportService   *reports.Service

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	ConfigHandler     *handlers.ConfigHandler
	InsightHandler    *handlers.InsightHandler
	CollectionHandler *handlers.CollectionHandler
	RoleHandler       *handlers.RoleHandler
	FeedbackHandler   *handlers.FeedbackHandler
	LearningHandler   *handlers.LearningHandler
	SchedulerHandler  *handlers.SchedulerHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	// Services and handlers share this copy; the caller's config stays untouched
	app := &App{
		Config: common.DeepCloneConfig(cfg),
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Bool("learning_enabled", cfg.Learning.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the storage layer and loads role definitions
func (a *App) initStorage() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	a.EventService = events.NewService(a.Logger)

	a.AnalysisService = analysis.NewService(a.Config.Analysis, a.Logger)

	a.RoleService = roles.NewService(a.StorageManager.RoleStorage(), a.Logger)

	ctx := context.Background()
	if err := a.RoleService.EnsureBuiltins(ctx); err != nil {
		return fmt.Errorf("failed to seed built-in roles: %w", err)
	}

	// Role definition files override the built-ins they name
	if err := a.StorageManager.LoadRoleDefinitionsFromFiles(ctx, a.Config.Roles.DefinitionsDir); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to load role definitions from files")
	}

	a.FeedbackService = feedback.NewService(a.StorageManager.FeedbackStorage(), a.EventService, a.Logger)

	a.LearningEngine = learning.NewEngine(a.StorageManager.FeedbackStorage(), a.EventService, a.Config.Learning, a.Logger)

	// The learning engine doubles as the generator's weight provider
	a.InsightService = insights.NewService(a.AnalysisService, a.Config.Analysis, a.LearningEngine, a.Logger)

	a.ReportService = reports.NewService(a.Config.Reports, a.Logger)

	a.SchedulerService = scheduler.NewService(a.EventService, a.Logger)

	// Adaptation trigger events run a full learning pass
	if err := a.EventService.Subscribe(interfaces.EventAdaptationTriggered, func(ctx context.Context, event interfaces.Event) error {
		_, err := a.LearningEngine.Adapt(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("failed to subscribe adaptation handler: %w", err)
	}

	if a.Config.Learning.Enabled {
		if err := a.SchedulerService.Start(a.Config.Learning.AdaptationSchedule); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to start scheduler service")
		} else {
			a.Logger.Debug().
				Str("schedule", a.Config.Learning.AdaptationSchedule).
				Msg("Scheduler service started")
		}
	} else {
		a.Logger.Info().Msg("Learning disabled, scheduler not started")
	}

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.ConfigHandler = handlers.NewConfigHandler(a.Config, a.Logger)

	a.InsightHandler = handlers.NewInsightHandler(
		a.InsightService,
		a.RoleService,
		a.StorageManager.CollectionStorage(),
		a.EventService,
		a.Logger,
	)

	a.CollectionHandler = handlers.NewCollectionHandler(
		a.StorageManager.CollectionStorage(),
		a.ReportService,
		a.Logger,
	)

	a.RoleHandler = handlers.NewRoleHandler(a.RoleService, a.Logger)

	a.FeedbackHandler = handlers.NewFeedbackHandler(
		a.FeedbackService,
		a.Config.Learning.FeedbackWindowDays,
		a.Logger,
	)

	a.LearningHandler = handlers.NewLearningHandler(
		a.LearningEngine,
		a.FeedbackService,
		a.Config.Learning,
		a.Logger,
	)

	a.SchedulerHandler = handlers.NewSchedulerHandler(a.SchedulerService)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
