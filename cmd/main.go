package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-service/internal/account"
	"booking-service/internal/distance"
	"booking-service/internal/handlers"
	"booking-service/internal/kinesis"
	"booking-service/internal/pricing"
	"booking-service/internal/service"
	"booking-service/internal/storage"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	kinesisService "github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Setup structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using process environment")
	}

	// Get configuration from environment
	port := getEnv("PORT", "8080")
	backendURL := getEnv("BACKEND_URL", "https://api.worldtriplink.com")
	backendTimeout := getEnvDuration("BACKEND_TIMEOUT", "10s")
	refreshInterval := getEnvDuration("REFRESH_INTERVAL", service.DefaultRefreshInterval.String())
	storageType := getEnv("STORAGE_TYPE", "memory")

	// Initialize storage based on configuration
	var sessionStorage storage.SessionStorage
	switch storageType {
	case "redis":
		redisURL := getEnv("REDIS_URL", "redis://localhost:6379/0")
		sessionTTL := getEnvDuration("SESSION_TTL", "24h")

		redisClient, err := storage.ConnectRedis(context.TODO(), redisURL)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		sessionStorage = storage.NewRedisSessionStorage(redisClient, sessionTTL)
		slog.Info("Using Redis storage", "session_ttl", sessionTTL)
	case "dynamodb":
		tableName := getEnv("DYNAMODB_SESSIONS_TABLE", "booking-sessions")
		region := getEnv("AWS_REGION", "ap-south-1")

		cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
		if err != nil {
			slog.Error("Failed to load AWS config", "error", err)
			os.Exit(1)
		}

		dynamoClient := dynamodb.NewFromConfig(cfg)
		sessionStorage = storage.NewDynamoDBSessionStorage(dynamoClient, tableName)
		slog.Info("Using DynamoDB storage", "table_name", tableName)
	default:
		sessionStorage = storage.NewMemorySessionStorage()
		slog.Info("Using in-memory storage")
	}

	// Initialize backend clients
	pricingClient := pricing.NewClient(backendURL, backendTimeout)
	accountClient := account.NewClient(backendURL, backendTimeout)

	// Initialize services
	searchService := service.NewSearchService(sessionStorage, pricingClient)
	bookingService := service.NewBookingService(sessionStorage, searchService)

	if apiKey := getEnv("GOOGLE_MAPS_API_KEY", ""); apiKey != "" {
		provider, err := distance.NewGoogleMapsProvider(apiKey)
		if err != nil {
			slog.Warn("Failed to create Google Maps client", "error", err)
		} else {
			searchService.SetDistanceProvider(provider)
			slog.Info("Road distance lookup enabled")
		}
	}

	// Initialize Kinesis streamer if stream name is provided
	if streamName := getEnv("KINESIS_BOOKING_EVENTS_STREAM", ""); streamName != "" {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			slog.Warn("Failed to load AWS config for Kinesis", "error", err)
		} else {
			kinesisClient := kinesisService.NewFromConfig(cfg)
			streamer := kinesis.NewStreamer(kinesisClient, streamName)
			searchService.SetKinesisStreamer(streamer)
			bookingService.SetKinesisStreamer(streamer)
			slog.Info("Kinesis booking event streaming enabled", "stream", streamName)
		}
	}

	// Initialize background price refresher
	priceRefresher := service.NewPriceRefresher(searchService, refreshInterval)
	priceRefresher.Start()
	defer priceRefresher.Stop()

	accountService := service.NewAccountService(sessionStorage, accountClient, searchService, priceRefresher)

	// Initialize HTTP handlers
	httpHandler := handlers.NewHTTPHandler(searchService, bookingService, accountService, priceRefresher)

	// Setup routes
	router := mux.NewRouter()

	// Use path prefix if running behind load balancer
	pathPrefix := os.Getenv("PATH_PREFIX")
	if pathPrefix != "" {
		bookingRouter := router.PathPrefix(pathPrefix).Subrouter()
		httpHandler.RegisterRoutes(bookingRouter)
	} else {
		httpHandler.RegisterRoutes(router)
	}

	// CORS wraps the router itself; mux middleware never sees unmatched OPTIONS preflights
	server := &http.Server{
		Addr:    ":" + port,
		Handler: corsMiddleware(router),
	}

	// Setup graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("Booking Service starting", "port", port, "backend_url", backendURL, "refresh_interval", refreshInterval)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Booking Service failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-c
	slog.Info("Booking Service shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets duration from environment variable
func getEnvDuration(key, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration, using default", "provided", value, "default", defaultValue, "error", err)
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

// corsMiddleware adds CORS headers for frontend access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+handlers.SessionHeader)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
