package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/accesscontrol"
	httptransport "github.com/spec-kit/inquiry-service/internal/api/http"
	"github.com/spec-kit/inquiry-service/internal/api/http/handlers"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/config"
	"github.com/spec-kit/inquiry-service/internal/notify"
	"github.com/spec-kit/inquiry-service/internal/observability"
	"github.com/spec-kit/inquiry-service/internal/persistence"
	"github.com/spec-kit/inquiry-service/internal/repository"
	"github.com/spec-kit/inquiry-service/internal/service"
	"github.com/spec-kit/inquiry-service/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	inquiryRepo := repository.NewInquiryRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)

	resolver := accesscontrol.NewResolver(userRepo, staffRepo, departmentRepo)

	authService := service.NewAuthService(*cfg, userRepo)
	inquiryService := service.NewInquiryService(service.InquiryDependencies{
		Tx:             repository.NewTxRunner(pool),
		InquiryRepo:    inquiryRepo,
		MessageRepo:    messageRepo,
		NoteRepo:       noteRepo,
		AuditRepo:      auditRepo,
		DepartmentRepo: departmentRepo,
		StaffRepo:      staffRepo,
		OutboxRepo:     outboxRepo,
		Logger:         logger,
		IntakeCode:     cfg.Intake.DepartmentCode,
	})
	templateService := service.NewTemplateService(templateRepo, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), resolver)

	notifier := notify.NewRedisNotifier(redis.Client, logger)
	outboxWorker := worker.NewOutboxWorker(outboxRepo, notifier, logger, cfg.Worker.PollInterval(), cfg.Worker.BatchSize)
	go outboxWorker.Run(ctx)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Inquiries:      handlers.NewInquiriesHandler(inquiryService),
		Templates:      handlers.NewTemplatesHandler(templateService),
		Reports:        handlers.NewReportsHandler(inquiryService, metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
