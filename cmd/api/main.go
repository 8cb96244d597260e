package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-console/internal/api/http"
	"github.com/spec-kit/complaint-console/internal/api/http/handlers"
	"github.com/spec-kit/complaint-console/internal/auth"
	"github.com/spec-kit/complaint-console/internal/config"
	"github.com/spec-kit/complaint-console/internal/events"
	"github.com/spec-kit/complaint-console/internal/feed"
	"github.com/spec-kit/complaint-console/internal/mailer"
	"github.com/spec-kit/complaint-console/internal/observability"
	"github.com/spec-kit/complaint-console/internal/persistence"
	"github.com/spec-kit/complaint-console/internal/repository"
	"github.com/spec-kit/complaint-console/internal/service"
	"github.com/spec-kit/complaint-console/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	activityFeed := feed.NewActivityFeed(redis, logger)

	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		CategoryRepo:  categoryRepo,
		UserRepo:      userRepo,
		CommentRepo:   commentRepo,
		ActivityRepo:  activityRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	queryService := service.NewQueryService(service.QueryDependencies{
		ComplaintRepo: complaintRepo,
		CommentRepo:   commentRepo,
		ActivityRepo:  activityRepo,
		UserRepo:      userRepo,
		CategoryRepo:  categoryRepo,
		Feed:          activityFeed,
		Logger:        logger,
	})
	userService := service.NewUserService(userRepo, logger)

	gateway := mailer.NewGateway(cfg.Mail, logger, metrics)
	templateClient := mailer.NewTemplateClient(cfg.Mail, logger)
	notificationService := service.NewNotificationService(cfg.Mail, cfg.App.BaseURL, gateway, templateClient, logger)
	worker.StartNotificationWorker(dispatcher, notificationService, activityFeed)

	verifier := auth.NewIdentityVerifier(cfg.Identity.JWTSecret, cfg.Identity.Issuer)
	authMiddleware := auth.NewAuthMiddleware(verifier, userRepo, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	complaintsHandler := handlers.NewComplaintsHandler(complaintService, queryService)
	usersHandler := handlers.NewUsersHandler(queryService, userService)
	categoriesHandler := handlers.NewCategoriesHandler(queryService)
	dashboardHandler := handlers.NewDashboardHandler(queryService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Complaints:     complaintsHandler,
		Users:          usersHandler,
		Categories:     categoriesHandler,
		Dashboard:      dashboardHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
