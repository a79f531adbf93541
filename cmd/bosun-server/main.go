// Bosun Server — движок прогонов deployment.
//
// Server:
//   - Принимает deployments и их шаги через HTTP API
//   - Выполняет шаги строго последовательно через orders API
//   - Опрашивает статусы orders и сводит их в статус deployment
//   - Публикует события жизненного цикла в RabbitMQ
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Bosun/internal/api"
	"github.com/shaiso/Bosun/internal/config"
	"github.com/shaiso/Bosun/internal/engine"
	"github.com/shaiso/Bosun/internal/events"
	"github.com/shaiso/Bosun/internal/orders"
	"github.com/shaiso/Bosun/internal/repo"
	"github.com/shaiso/Bosun/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting bosun-server")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	// Создаём репозитории
	deploymentRepo := repo.NewDeploymentRepo(pool)
	stepRepo := repo.NewStepRepo(pool)

	// RabbitMQ
	var publisher *events.Publisher
	amqpURL := cfg.AMQPURL
	if amqpURL == "" {
		amqpURL = events.DefaultURL()
	}

	eventsConn, err := events.NewConnection(amqpURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running without events", "error", err)
	} else {
		defer eventsConn.Close()
		logger.Info("RabbitMQ connected")

		// Создаём топологию
		if err := events.SetupTopology(ctx, eventsConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = events.NewPublisher(eventsConn, logger)
	}

	// Клиент orders API
	ordersClient := orders.NewClient(cfg.Orders.BaseURL, cfg.Orders.Token)

	// Создаём engine
	eng := engine.New(engine.Config{
		Deployments:  deploymentRepo,
		Steps:        stepRepo,
		Orders:       ordersClient,
		Publisher:    publisher,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})

	// Запускаем engine
	if err := eng.Start(ctx); err != nil {
		logger.Error("failed to start engine", "error", err)
		os.Exit(1)
	}

	// HTTP mux: API + /healthz + /metrics
	mux := http.NewServeMux()

	handler := api.NewHandler(api.Config{
		DeploymentRepo: deploymentRepo,
		StepRepo:       stepRepo,
		Engine:         eng,
		Logger:         logger,
	})
	handler.RegisterRoutes(mux)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем engine
	eng.Stop()
	logger.Info("bosun-server stopped")
}
