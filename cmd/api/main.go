package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/artemisia-corp/storefront/api/routes"
	"github.com/artemisia-corp/storefront/internal/address"
	"github.com/artemisia-corp/storefront/internal/auth"
	"github.com/artemisia-corp/storefront/internal/checkout"
	"github.com/artemisia-corp/storefront/internal/orders"
	product "github.com/artemisia-corp/storefront/internal/products"
	"github.com/artemisia-corp/storefront/internal/users"
	"github.com/artemisia-corp/storefront/internal/workspace"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/config"
	"github.com/artemisia-corp/storefront/pkg/gateway"
	"github.com/artemisia-corp/storefront/pkg/logger"
	"github.com/artemisia-corp/storefront/pkg/metrics"
	"github.com/artemisia-corp/storefront/pkg/redis"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: cfg.Service.Name,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(runCtx, cfg.Redis, logg)
	if err != nil {
		logg.Error(runCtx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient)
	if err != nil {
		logg.Error(runCtx, "failed to create session manager", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gw, err := gateway.NewClient(cfg.Upstream.BaseURL,
		gateway.WithTimeout(cfg.Upstream.Timeout),
		gateway.WithBreaker(gateway.BreakerSettings{
			MaxFailures: cfg.Upstream.BreakerMaxFailures,
			OpenTimeout: cfg.Upstream.BreakerOpenTimeout,
			Interval:    cfg.Upstream.BreakerInterval,
		}),
		gateway.WithMetrics(metrics.NewUpstreamMetrics(reg)),
	)
	if err != nil {
		logg.Error(runCtx, "failed to create upstream client", err)
		os.Exit(1)
	}

	addressService, err := address.NewService(gw)
	if err != nil {
		logg.Error(runCtx, "failed to create address service", err)
		os.Exit(1)
	}

	registry, err := workspace.NewRegistry(workspace.Deps{
		Gateway:   gw,
		Addresses: addressService,
		Checkout: checkout.Options{
			ChargeReason:  cfg.Checkout.ChargeReason,
			Country:       cfg.Checkout.Country,
			Network:       cfg.Checkout.Network,
			PaymentWindow: cfg.Checkout.PaymentWindow,
			Metrics:       metrics.NewCheckoutMetrics(reg),
		},
		Logger: logg,
	})
	if err != nil {
		logg.Error(runCtx, "failed to create workspace registry", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Upstream:      gw,
		Sessions:      sessionManager,
		Workspaces:    registry,
		SessionConfig: cfg.Session,
	})
	if err != nil {
		logg.Error(runCtx, "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(gw)
	if err != nil {
		logg.Error(runCtx, "failed to create user service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(product.ServiceParams{
		Gateway:       gw,
		Logger:        logg,
		MaxImageBytes: cfg.Media.MaxImageBytes(),
	})
	if err != nil {
		logg.Error(runCtx, "failed to create product service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(gw)
	if err != nil {
		logg.Error(runCtx, "failed to create order service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:     cfg,
		Logger:     logg,
		Redis:      redisClient,
		Metrics:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Auth:       authService,
		Users:      userService,
		Products:   productService,
		Addresses:  addressService,
		Orders:     orderService,
		Workspaces: registry,
	})

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"upstream": cfg.Upstream.BaseURL,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(router, cfg.Service.Name),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepWorkspaces(runCtx, registry, logg)

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting storefront server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "storefront server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	multierr.AppendInto(&shutdownErr, server.Shutdown(shutdownCtx))
	registry.CloseAll()
	multierr.AppendInto(&shutdownErr, redisClient.Close())
	if shutdownErr != nil {
		logg.Error(ctx, "shutdown finished with errors", shutdownErr)
		exitCode = 1
	} else {
		logg.Info(ctx, "storefront server stopped")
	}
	os.Exit(exitCode)
}

func sweepWorkspaces(ctx context.Context, registry *workspace.Registry, logg *logger.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if dropped := registry.Sweep(now); dropped > 0 {
				logg.Debug(logg.WithField(ctx, "dropped", dropped), "expired workspaces swept")
			}
		}
	}
}
