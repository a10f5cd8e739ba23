package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"paperdesk.app/ingress/common/id"
	"paperdesk.app/ingress/common/logger"
	"paperdesk.app/ingress/common/otel"
	"paperdesk.app/ingress/core/config"
	"paperdesk.app/ingress/core/db"
	"paperdesk.app/ingress/internal/classify"
	"paperdesk.app/ingress/internal/dispatch"
	"paperdesk.app/ingress/internal/gate"
	httprouter "paperdesk.app/ingress/internal/http/router"
	"paperdesk.app/ingress/internal/http/handler/webhook"
	"paperdesk.app/ingress/internal/http/middleware"
	"paperdesk.app/ingress/internal/queue"
	"paperdesk.app/ingress/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "ingress starting", "env", cfg.Env, "dispatch_mode", cfg.Dispatch.Mode)

	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected")

	approvals := store.NewChatApprovalStore(database.Pool())
	limits := store.NewOnboardRateLimitStore(redisClient, cfg.Onboard.MaxAttempts)
	approvalGate := gate.New(approvals, limits)

	classifier := classify.NewClassifier(cfg.Commands.Invoice, cfg.Commands.Onboard)

	// The direct/queued switch is a composition-time decision; nothing
	// downstream of here checks the environment again.
	var dispatcher dispatch.Dispatcher
	switch cfg.Dispatch.Mode {
	case config.DispatchModeDirect:
		dispatcher = dispatch.NewDirect(cfg.Worker.BaseURL, cfg.Worker.AuthToken, nil)
	default:
		queueClient := queue.NewHTTPClient(cfg.Queue.BaseURL, cfg.Queue.Name, cfg.Queue.AuthToken, nil)
		dispatcher = dispatch.NewQueued(queueClient, cfg.Worker.BaseURL)
	}

	webhookHandler := webhook.NewHandler(cfg.Webhook.Secret, classifier, approvalGate, dispatcher, cfg.Dispatch.Timeout)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, webhookHandler)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, webhookHandler *webhook.Handler) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span, Recovery catches panics, Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, webhookHandler)

	return router
}

const banner = `
██╗███╗   ██╗ ██████╗ ██████╗ ███████╗███████╗███████╗
██║████╗  ██║██╔════╝ ██╔══██╗██╔════╝██╔════╝██╔════╝
██║██╔██╗ ██║██║  ███╗██████╔╝█████╗  ███████╗███████╗
██║██║╚██╗██║██║   ██║██╔══██╗██╔══╝  ╚════██║╚════██║
██║██║ ╚████║╚██████╔╝██║  ██║███████╗███████║███████║
╚═╝╚═╝  ╚═══╝ ╚═════╝ ╚═╝  ╚═╝╚══════╝╚══════╝╚══════╝
`
