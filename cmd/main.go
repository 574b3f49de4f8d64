package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/matthewtrundle/partyondelivery-checkout/internal/cart"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/discount"
	h "github.com/matthewtrundle/partyondelivery-checkout/internal/http"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/payment"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/prefs"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/publisher"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/repository"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/service"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	RedisAddr  string
	SessionTTL time.Duration

	MongoURI string
	MongoDB  string

	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	MigrationsPath string

	KafkaBrokers []string

	DiscountEndpoint string
	IntentEndpoint   string
	ConfirmEndpoint  string
	PaymentAPIKey    string
}

func loadConfig() *Config {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		SessionTTL:       30 * time.Minute,
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "partyondelivery"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           dbPort,
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "checkout"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),
		KafkaBrokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		DiscountEndpoint: getEnv("DISCOUNT_ENDPOINT", "http://localhost:8090/validate-discount"),
		IntentEndpoint:   getEnv("INTENT_ENDPOINT", "http://localhost:8091/create-payment-intent"),
		ConfirmEndpoint:  getEnv("CONFIRM_ENDPOINT", "http://localhost:8091/confirm-payment"),
		PaymentAPIKey:    getEnv("PAYMENT_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("checkout service starting...")

	cfg := loadConfig()
	ctx := context.Background()

	// Redis holds both preference tiers
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	tiers := prefs.Tiers{
		Durable: prefs.NewRedisStore(redisClient, "prefs", 0),
		Session: prefs.NewRedisStore(redisClient, "session", cfg.SessionTTL),
	}

	// Mongo holds the cart aggregate
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping mongo: %v", err)
	}
	carts := cart.NewMongoRepository(mongoClient.Database(cfg.MongoDB))

	// Postgres holds completions and the outbox
	creds := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Outbox poller publishes completion events to kafka
	poller := publisher.NewOutboxPoller(repo, cfg.KafkaBrokers...)
	defer poller.Close()
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	go poller.Run(pollerCtx)

	// Remote collaborators ride a traced transport
	httpClient := &http.Client{
		Timeout:   15 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	discounts := discount.NewClient(cfg.DiscountEndpoint, cfg.PaymentAPIKey, httpClient)
	intents := payment.NewHTTPIntentClient(cfg.IntentEndpoint, cfg.PaymentAPIKey, httpClient)
	processor := payment.NewHTTPProcessor(cfg.ConfirmEndpoint, cfg.PaymentAPIKey, httpClient)
	orchestrator := payment.NewOrchestrator(intents, processor)

	checkout := service.NewCheckoutService(tiers, carts, discounts, orchestrator, repo)

	checkoutHandler := h.NewCheckoutHandler(checkout, 5*time.Second)
	cartHandler := h.NewCartHandler(checkout, 5*time.Second)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h.NewRouter(checkoutHandler, cartHandler, cfg.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("checkout service listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
