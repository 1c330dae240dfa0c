package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-triage/internal/api/http"
	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/persistence"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/service"
	"github.com/spec-kit/ticket-triage/internal/triage"
	"github.com/spec-kit/ticket-triage/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	replyRepo := repository.NewTicketReplyRepository(pool)
	suggestionRepo := repository.NewSuggestionRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)
	configRepo := repository.NewTriageConfigCache(
		repository.NewTriageConfigRepository(pool),
		redis.Client,
		cfg.Triage.ConfigCacheTTL(),
		logger,
	)

	pipeline := triage.NewPipeline(triage.PipelineDependencies{
		TicketRepo:       ticketRepo,
		ReplyRepo:        replyRepo,
		SuggestionRepo:   suggestionRepo,
		TriageConfigRepo: configRepo,
		Classifier:       triage.NewClassifier(cfg.Triage.Backend, logger),
		Retriever:        triage.NewRetriever(articleRepo, logger),
		Drafter:          triage.NewDrafter(cfg.Triage.Backend, logger),
		Recorder:         triage.NewRecorder(auditRepo, logger),
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
		PromptVersion:    cfg.Triage.PromptVersion,
	})
	runner := triage.NewRunner(pipeline, metrics, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		ReplyRepo:      replyRepo,
		SuggestionRepo: suggestionRepo,
		AuditRepo:      auditRepo,
		Runner:         runner,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	articleService := service.NewArticleService(articleRepo)
	configService := service.NewConfigService(configRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(func(c *fiber.Ctx) error {
		if pool == nil {
			return nil
		}
		return pool.Ping(c.UserContext())
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   healthHandler,
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Articles: handlers.NewArticlesHandler(articleService),
		Admin:    handlers.NewAdminHandler(configService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	runner.Shutdown(cfg.Triage.ShutdownTimeout())
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
