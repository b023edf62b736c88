package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"gorm.io/gorm"

	"github.com/hotel-booking/hotel-booking-system/internal/application/usecase"
	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
	"github.com/hotel-booking/hotel-booking-system/internal/infrastructure/adapter"
	"github.com/hotel-booking/hotel-booking-system/internal/infrastructure/config"
	"github.com/hotel-booking/hotel-booking-system/internal/infrastructure/entity"
	"github.com/hotel-booking/hotel-booking-system/internal/infrastructure/handler"
	"github.com/hotel-booking/hotel-booking-system/pkg/database"
	"github.com/hotel-booking/hotel-booking-system/pkg/logger"

	_ "github.com/hotel-booking/hotel-booking-system/docs"
)

// @title Hotel Booking Search API
// @version 1.0
// @description API for searching and browsing bookable hotels
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /
// @schemes http https

type Application struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	logger *slog.Logger
	server *http.Server

	hotelRepo    *adapter.PostgresHotelRepository
	cache        *adapter.RedisCacheAdapter
	searchEngine *adapter.ElasticsearchAdapter
	events       search.EventPublisher

	searchHotelsUseCase *usecase.SearchHotelsUseCase
	getHotelByIDUseCase *usecase.GetHotelByIDUseCase
	listHotelsUseCase   *usecase.ListHotelsUseCase
	syncHotelsUseCase   *usecase.SyncHotelsUseCase

	hotelHandler *handler.HotelHandler
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	applicationLogger := logger.SetupLogger(cfg.Logging.Level)

	app, err := NewApplication(cfg, applicationLogger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Start(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func NewApplication(cfg *config.Config, applicationLogger *slog.Logger) (*Application, error) {
	db, err := database.GormOpen(cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	if err := database.ConfigurePool(db, database.PoolSettings{
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		ConnMaxLife:        cfg.Database.ConnMaxLife,
	}); err != nil {
		return nil, err
	}

	if err := database.RunMigrations(db, &entity.HotelRecord{}, &entity.RoomRecord{}); err != nil {
		return nil, err
	}

	redisClient := initRedis(cfg.Redis, applicationLogger)

	hotelRepo := adapter.NewPostgresHotelRepository(db, applicationLogger)
	cache := adapter.NewRedisCacheAdapterWithClient(redisClient, applicationLogger)

	var searchEngine *adapter.ElasticsearchAdapter
	if cfg.EngineEnabled() {
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
		}
		searchEngine = adapter.NewElasticsearchAdapter(esClient, cfg.Elasticsearch.Index, hotelRepo, applicationLogger)
	}

	events, err := initEventPublisher(cfg.Analytics, applicationLogger)
	if err != nil {
		return nil, err
	}

	// The orchestrator and sync use case check their engine against nil; a
	// typed nil pointer would dodge that check, so assign conditionally.
	var engineStrategy search.Strategy
	var engineForSync search.Engine
	if searchEngine != nil {
		engineStrategy = searchEngine
		engineForSync = searchEngine
	}

	searchHotelsUseCase := usecase.NewSearchHotelsUseCase(
		engineStrategy,
		hotelRepo,
		events,
		applicationLogger,
	)

	getHotelByIDUseCase := usecase.NewGetHotelByIDUseCase(hotelRepo, cache, applicationLogger)
	listHotelsUseCase := usecase.NewListHotelsUseCase(hotelRepo, applicationLogger)
	syncHotelsUseCase := usecase.NewSyncHotelsUseCase(hotelRepo, engineForSync, applicationLogger)

	hotelHandler := handler.NewHotelHandler(
		searchHotelsUseCase,
		getHotelByIDUseCase,
		listHotelsUseCase,
		syncHotelsUseCase,
		applicationLogger,
	)

	server := initServer(cfg.Server, hotelHandler, applicationLogger)

	return &Application{
		config:              cfg,
		db:                  db,
		redis:               redisClient,
		logger:              applicationLogger,
		server:              server,
		hotelRepo:           hotelRepo,
		cache:               cache,
		searchEngine:        searchEngine,
		events:              events,
		searchHotelsUseCase: searchHotelsUseCase,
		getHotelByIDUseCase: getHotelByIDUseCase,
		listHotelsUseCase:   listHotelsUseCase,
		syncHotelsUseCase:   syncHotelsUseCase,
		hotelHandler:        hotelHandler,
	}, nil
}

func (app *Application) Start() error {
	ctx := context.Background()

	app.logger.Info("Starting booking search service",
		"version", "1.0.0",
		"address", app.config.Server.Address(),
		"search_engine", app.config.Search.Engine)

	if err := app.performHealthChecks(ctx); err != nil {
		app.logger.Error("Health checks failed", "error", err)
		return err
	}

	if app.searchEngine != nil {
		if err := app.searchEngine.EnsureIndex(ctx); err != nil {
			app.logger.Warn("Failed to ensure search index", "error", err)
		}
	}

	go func() {
		figure.NewFigure("Booking API", "", true).Print()
		fmt.Println("")
		fmt.Println("Booking search service started at " + app.config.Server.Address())
		fmt.Println("")
		if err := app.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("HTTP server failed", "error", err)
		}
	}()

	app.waitForShutdown()

	return nil
}

func (app *Application) performHealthChecks(ctx context.Context) error {
	app.logger.Info("Performing health checks")

	if sqlDB, err := app.db.DB(); err == nil {
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
	}

	if err := app.cache.Ping(ctx); err != nil {
		app.logger.Warn("Redis health check failed", "error", err)
	}

	if app.searchEngine != nil {
		if err := app.searchEngine.HealthCheck(ctx); err != nil {
			app.logger.Warn("Elasticsearch health check failed", "error", err)
		}
	}

	return nil
}

func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	app.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("Server forced to shutdown", "error", err)
	}

	if closer, ok := app.events.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			app.logger.Error("Error closing event publisher", "error", err)
		}
	}

	if sqlDB, err := app.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			app.logger.Error("Error closing database", "error", err)
		}
	}

	if err := app.redis.Close(); err != nil {
		app.logger.Error("Error closing Redis", "error", err)
	}

	app.logger.Info("Server stopped gracefully")
}

func initRedis(cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	logger.Info("Connecting to Redis", "address", cfg.Address())

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.Database,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	logger.Info("Redis client created")
	return client
}

func initEventPublisher(cfg config.AnalyticsConfig, logger *slog.Logger) (search.EventPublisher, error) {
	if !cfg.Enabled {
		logger.Info("Search analytics disabled, events will be discarded")
		return adapter.NopEventPublisher{}, nil
	}

	publisher, err := adapter.NewRabbitMQEventPublisher(cfg.URL, cfg.Queue, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}
	return publisher, nil
}

func initServer(cfg config.ServerConfig, hotelHandler *handler.HotelHandler, logger *slog.Logger) *http.Server {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/hotels", hotelHandler.ListHotels).Methods("GET")
	api.HandleFunc("/hotels/{id}", hotelHandler.GetHotelByID).Methods("GET")

	api.HandleFunc("/search/hotels", hotelHandler.SearchHotels).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/sync", hotelHandler.TriggerSync).Methods("POST")

	router.HandleFunc("/health", hotelHandler.HealthCheck).Methods("GET")

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	router.Use(rateLimitMiddleware(100, time.Minute))
	router.Use(loggingMiddleware(logger))
	if cfg.EnableCORS {
		router.Use(corsMiddleware)
	}

	printRoutes(router, logger)

	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func printRoutes(router *mux.Router, logger *slog.Logger) {
	fmt.Println("API Routes Overview")
	fmt.Println("═══════════════════════════════════════════════════════════════")

	var routes []string

	err := router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"ALL"}
		}

		methodStr := strings.Join(methods, ", ")
		routeDesc := fmt.Sprintf("  %-8s %s", methodStr, pathTemplate)

		switch {
		case strings.Contains(pathTemplate, "/health"):
			routeDesc += " - Health check endpoint"
		case strings.Contains(pathTemplate, "/swagger"):
			routeDesc += " - API documentation (Swagger UI)"
		case strings.Contains(pathTemplate, "/hotels/{id}"):
			routeDesc += " - Get specific hotel by ID"
		case strings.Contains(pathTemplate, "/search/hotels"):
			routeDesc += " - Search hotels with filters"
		case strings.Contains(pathTemplate, "/admin/sync"):
			routeDesc += " - Trigger search index synchronization"
		case strings.Contains(pathTemplate, "/hotels"):
			routeDesc += " - List hotels newest first"
		default:
			routeDesc += " - API endpoint"
		}

		routes = append(routes, routeDesc)
		return nil
	})

	if err != nil {
		logger.Error("Error walking routes", "error", err)
		return
	}

	for _, route := range routes {
		fmt.Println(route)
	}

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("Total registered routes: %d\n", len(routes))
	fmt.Println("Visit /swagger/ for interactive API documentation")
}
