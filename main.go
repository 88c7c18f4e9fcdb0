package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messenger/internal/config"
	"messenger/internal/handlers"
	"messenger/internal/logger"
	"messenger/internal/middleware"
	"messenger/internal/notify"
	"messenger/internal/observability"
	"messenger/internal/rabbitmq"
	"messenger/internal/repositories"
	"messenger/internal/seed"
	"messenger/internal/telemetry"
	"messenger/internal/ws"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Environment)
	if err != nil {
		log.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Error("failed to load seed data", "error", err)
		os.Exit(1)
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	log.Info("event publisher ready", "mode", rabbitmq.PublisherMode(publisher), "noop_reason", rabbitmq.PublisherNoopReason(publisher))
	observability.SetPublisher(publisher)

	audit := telemetry.NewAuditEmitter(publisher, "chat", cfg.ServiceName, cfg.Environment)
	busNotifier := notify.NewPublisherNotifier(audit, log)
	hub := ws.NewHub()

	store := repositories.NewMessageStore(data.Messages,
		repositories.WithAuthor(repositories.Author{Name: cfg.LocalUserName, Avatar: cfg.LocalUserAvatar}),
		repositories.WithTimestampLayout(cfg.TimestampLayout),
		repositories.WithOwnershipCheck(cfg.EnforceOwnership),
		repositories.WithNotifier(notify.Fanout{notify.NewToaster(log), hub, busNotifier}),
	)
	contacts := repositories.NewContactDirectory(data.Contacts)
	log.Info("seed data loaded", "messages", len(data.Messages), "contacts", len(data.Contacts))

	router := gin.New()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(observability.HTTPMetricsMiddleware())

	handlers.RegisterRoutes(router, handlers.NewChatHandler(store), handlers.NewContactHandler(contacts))
	router.GET("/ws", ws.NewFeedHandler(hub, store).Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("messenger listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	busNotifier.Close()
	if err := publisher.Close(); err != nil {
		log.Error("close publisher", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("shutdown tracing", "error", err)
	}
}
