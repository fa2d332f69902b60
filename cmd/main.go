package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-api/internal/auth"
	"restaurant-api/internal/config"
	"restaurant-api/internal/database"
	"restaurant-api/internal/graph"
	"restaurant-api/internal/logger"
	"restaurant-api/internal/server"
	"restaurant-api/internal/services/cart"
	"restaurant-api/internal/services/catalog"
	"restaurant-api/internal/services/delivery"
	"restaurant-api/internal/services/order"
	"restaurant-api/internal/services/rating"
	"restaurant-api/migrations"
)

func main() {
	var (
		port       = flag.Int("port", 0, "HTTP port (overrides config)")
		configPath = flag.String("config", "config.yaml", "Path to config file")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.New("restaurant-api")
	requestID := logger.GenerateRequestID()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("service_failed", "Service failed", requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, migrations.Files); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	authStore := auth.NewPostgresStore(db)
	throttle := auth.NewThrottle(cfg.Server.ThrottlePerMin)
	strategy := delivery.ParseStrategy(cfg.Delivery.Strategy)

	catalogSvc := catalog.NewService(catalog.NewPostgresRepository(db))
	cartSvc := cart.NewService(cart.NewPostgresRepository(db), strategy)
	orderSvc := order.NewService(order.NewPostgresRepository(db))
	ratingSvc := rating.NewService(rating.NewPostgresRepository(db))

	graphHandler, err := graph.NewHandler(graph.NewPostgresStore(db), log)
	if err != nil {
		return fmt.Errorf("failed to build graphql schema: %w", err)
	}

	router := server.NewRouter(server.Deps{
		Logger:   log,
		Auth:     authStore,
		Throttle: throttle,
		Catalog:  catalog.NewHandler(catalogSvc, log),
		Cart:     cart.NewHandler(cartSvc, log),
		Orders:   order.NewHandler(orderSvc, log),
		Ratings:  rating.NewHandler(ratingSvc, log),
		Groups:   auth.NewGroupsHandler(authStore, log),
		GraphQL:  graphHandler,
		Health:   healthHandler(db),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("Restaurant API started on port %d", cfg.Server.Port), requestID, map[string]any{
			"port": cfg.Server.Port,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

func healthHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status": "degraded", "timestamp": %q}`, time.Now().UTC().Format(time.RFC3339))
			return
		}
		fmt.Fprintf(w, `{"status": "ok", "timestamp": %q}`, time.Now().UTC().Format(time.RFC3339))
	}
}
