package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/eventpass/internal/api/http"
	"github.com/spec-kit/eventpass/internal/api/http/handlers"
	"github.com/spec-kit/eventpass/internal/auth"
	"github.com/spec-kit/eventpass/internal/cache"
	"github.com/spec-kit/eventpass/internal/config"
	"github.com/spec-kit/eventpass/internal/events"
	"github.com/spec-kit/eventpass/internal/observability"
	"github.com/spec-kit/eventpass/internal/persistence"
	"github.com/spec-kit/eventpass/internal/repository"
	"github.com/spec-kit/eventpass/internal/service"
	"github.com/spec-kit/eventpass/internal/worker"
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
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, metrics, cfg.Notification))
	if relay := worker.StartEventRelay(cfg.AMQP, dispatcher, logger); relay != nil {
		defer relay.Close()
	}

	pool := pg.PoolHandle()
	usuarioRepo := repository.NewUsuarioRepository(pool)
	eventoRepo := repository.NewEventoRepository(pool)
	historicoRepo := repository.NewIngressoHistoricoRepository(pool)
	ingressoRepo := repository.NewIngressoRepository(pool, historicoRepo)
	eventoCache := cache.NewEventoCache(redis.ClientHandle(), cfg.Cache.EventosTTL(), logger)

	usuarioService := service.NewUsuarioService(service.UsuarioDependencies{
		UsuarioRepo: usuarioRepo,
		EventoCache: eventoCache,
		Dispatcher:  dispatcher,
		BcryptCost:  cfg.Auth.BcryptCost,
		Logger:      logger,
	})
	eventoService := service.NewEventoService(service.EventoDependencies{
		EventoRepo:  eventoRepo,
		UsuarioRepo: usuarioRepo,
		EventoCache: eventoCache,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	ingressoService := service.NewIngressoService(service.IngressoDependencies{
		IngressoRepo:  ingressoRepo,
		HistoricoRepo: historicoRepo,
		EventoRepo:    eventoRepo,
		UsuarioRepo:   usuarioRepo,
		EventoCache:   eventoCache,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UsuarioRepo:    usuarioRepo,
		UsuarioService: usuarioService,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), usuarioRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Usuarios:       handlers.NewUsuariosHandler(usuarioService, eventoService, ingressoService),
		Eventos:        handlers.NewEventosHandler(eventoService, ingressoService),
		Ingressos:      handlers.NewIngressosHandler(ingressoService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
