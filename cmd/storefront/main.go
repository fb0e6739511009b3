package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Dhruvi0420/bakery-website/internal/bus"
	"github.com/Dhruvi0420/bakery-website/internal/cart"
	"github.com/Dhruvi0420/bakery-website/internal/checkout"
	h "github.com/Dhruvi0420/bakery-website/internal/http"
	"github.com/Dhruvi0420/bakery-website/internal/identity"
	"github.com/Dhruvi0420/bakery-website/internal/kv"
)

type Config struct {
	HTTPPort        string
	StoreBackend    string // file, memory, redis or mongo
	StoreFilePath   string
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDBName     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StoreBackend:    getEnv("STORE_BACKEND", "file"),
		StoreFilePath:   getEnv("STORE_FILE", "data/storefront.json"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer cleanup()
	logger.Info("store ready", zap.String("backend", cfg.StoreBackend))

	eventBus := bus.New()
	ledger := cart.NewLedger(store, eventBus, logger)
	registry := identity.NewRegistry(store, eventBus, logger)
	coordinator := checkout.NewCoordinator(ledger, registry, logger)

	cartHandler := h.NewCartHandler(ledger, cfg.RequestTimeout, logger)
	authHandler := h.NewAuthHandler(registry, coordinator, cfg.RequestTimeout, logger)
	ordersHandler := h.NewOrdersHandler(registry, cfg.RequestTimeout, logger)
	checkoutHandler := h.NewCheckoutHandler(coordinator, cfg.RequestTimeout, logger)
	eventsHandler := h.NewEventsHandler(eventBus, logger)
	fragmentsHandler := h.NewFragmentsHandler(ledger, registry, h.DefaultMenu(), cfg.RequestTimeout, logger)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", authHandler.SignIn)
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signout", authHandler.SignOut)
			r.Get("/me", authHandler.Me)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Delete("/", ordersHandler.ClearHistory)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Begin)
			r.Post("/resume", checkoutHandler.Resume)
			r.Post("/cancel", checkoutHandler.Cancel)
			r.Get("/state", checkoutHandler.State)
		})
	})

	// Rendered fragments for each surface
	r.Route("/fragments", func(r chi.Router) {
		r.Get("/cart-drawer", fragmentsHandler.CartDrawer)
		r.Get("/cart-page", fragmentsHandler.CartPage)
		r.Get("/menu", fragmentsHandler.MenuDrawer)
		r.Get("/profile", fragmentsHandler.Profile)
		r.Get("/nav-chip", fragmentsHandler.NavChip)
	})

	// Cross-view refresh stream
	r.Get("/events", eventsHandler.Stream)

	srv := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     otelhttp.NewHandler(r, "storefront"),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

// openStore selects the persistence backend. Remote backends are wrapped in
// a circuit breaker so an outage degrades reads to empty defaults instead of
// blocking every page.
func openStore(ctx context.Context, cfg *Config) (kv.Store, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case "memory":
		return kv.NewMemoryStore(), noop, nil

	case "file":
		store, err := kv.NewFileStore(cfg.StoreFilePath)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("redis connection failed: %w", err)
		}
		cleanup := func() { client.Close() }
		return kv.NewBreakerStore("redis-store", kv.NewRedisStore(client)), cleanup, nil

	case "mongo":
		db, err := kv.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() { db.Client().Disconnect(context.Background()) }
		return kv.NewBreakerStore("mongo-store", kv.NewMongoStore(db)), cleanup, nil

	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
