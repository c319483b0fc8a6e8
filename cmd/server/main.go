package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voice-order-service/internal/config"
	httpctl "voice-order-service/internal/controllers/http"
	"voice-order-service/internal/controllers/telegram"
	"voice-order-service/internal/controllers/ws"
	"voice-order-service/internal/dialogue"
	"voice-order-service/internal/infra"
	"voice-order-service/internal/infra/rabbitmq"
	"voice-order-service/internal/menu"
	"voice-order-service/internal/metrics"
	"voice-order-service/internal/repository/gormrepo"
	"voice-order-service/internal/services"
	"voice-order-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using system envs")
	}

	cfg := config.MustLoad()

	logger, err := config.NewLogger(cfg.Logger())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	m, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		logger.Fatal("failed to load menu", zap.String("path", cfg.Menu.Path), zap.Error(err))
	}
	if collisions := m.Collisions(); len(collisions) > 0 {
		for _, c := range collisions {
			logger.Warn("menu alias resolves to more than one item",
				zap.String("alias", c.Alias),
				zap.String("winner", c.Winner),
				zap.String("shadowed", c.Shadows),
			)
		}
		if cfg.Menu.StrictAliases {
			logger.Fatal("refusing to start with ambiguous menu aliases", zap.Int("collisions", len(collisions)))
		}
	}

	db, err := infra.OpenDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("db: connect", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	repo := gormrepo.NewOrderRepository(db, logger)

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{Logger: logger}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Fatal("failed to init publisher", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}

	mt := metrics.New()
	orderService := services.NewOrderService(repo, publisher, m, logger, mt)

	var sessions session.Store = session.NewMemoryStore(cfg.Session.TTL)
	if rdb := connectRedis(cfg.Redis, logger); rdb != nil {
		defer rdb.Close()
		orderService.SetRedisClient(rdb, cfg.Redis.CacheTTL)
		sessions = session.NewRedisStore(rdb, cfg.Session.TTL)
	}

	engine := dialogue.NewEngine(m, orderService, logger)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpctl.NewRouter(httpctl.NewHandler(engine, orderService, mt, logger), cfg.HTTP.AllowedOrigins)
	ws.NewCallHandler(engine, mt, logger, cfg.HTTP.AllowedOrigins).RegisterRoutes(router)

	apiServer := &http.Server{
		Addr:         cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	metricsRouter := gin.New()
	metricsRouter.GET("/metrics", gin.WrapH(mt.Handler()))
	metricsServer := &http.Server{
		Addr:    cfg.HTTP.MetricsPort,
		Handler: metricsRouter,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting order service", zap.String("addr", apiServer.Addr))
		return serve(apiServer)
	})
	g.Go(func() error {
		logger.Info("starting metrics server", zap.String("addr", metricsServer.Addr))
		return serve(metricsServer)
	})

	if cfg.Telegram.Token != "" {
		bot, err := telegram.NewBot(cfg.Telegram.Token, engine, sessions, mt, logger)
		if err != nil {
			logger.Fatal("telegram", zap.Error(err))
		}
		g.Go(func() error { return bot.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		return errors.Join(
			apiServer.Shutdown(shutdownCtx),
			metricsServer.Shutdown(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// connectRedis returns nil when redis is not configured or not reachable;
// the service then runs without a cache and keeps chat sessions in memory.
func connectRedis(cfg config.Redis, logger *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without it", zap.String("addr", cfg.Addr), zap.Error(err))
		rdb.Close()
		return nil
	}
	return rdb
}
