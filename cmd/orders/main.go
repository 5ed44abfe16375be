package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tablescape/tablescape-orders-service/internal/clients"
	"github.com/tablescape/tablescape-orders-service/internal/config"
	"github.com/tablescape/tablescape-orders-service/internal/events"
	"github.com/tablescape/tablescape-orders-service/internal/handlers"
	"github.com/tablescape/tablescape-orders-service/internal/logging"
	"github.com/tablescape/tablescape-orders-service/internal/repository"
	"github.com/tablescape/tablescape-orders-service/internal/server"
	"github.com/tablescape/tablescape-orders-service/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logging.NewLogger("orders-service")

	logging.Infof("Starting tablescape-orders-service on port %d", cfg.Server.Port)

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
	}
	defer db.Close()

	orderRepo := repository.NewPostgresOrderRepository(db)
	quoteCache := repository.NewRedisQuoteCache(cfg.Redis)
	defer quoteCache.Close()

	distanceClient := clients.NewHTTPDistanceClient(cfg.DistanceService)
	taxClient := clients.NewHTTPTaxRateClient(cfg.TaxService)

	eventPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
	defer eventPublisher.Close()

	orderService := service.NewOrderService(
		orderRepo,
		quoteCache,
		distanceClient,
		taxClient,
		eventPublisher,
		cfg,
	)

	h := handlers.NewHandlers(orderService, cfg)

	srv := server.New(h, cfg)

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":                   cfg.Server.Port,
			"enable_quote_caching":   cfg.Features.EnableQuoteCaching,
			"enable_order_events":    cfg.Features.EnableOrderEvents,
			"enable_distance_lookup": cfg.Features.EnableDistanceLookup,
		})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	// Bookings feed: menu or guest-count changes trigger repricing.
	eventConsumer := events.NewKafkaConsumer(cfg.Kafka, orderService, logger)
	go func() {
		if err := eventConsumer.Start(context.Background()); err != nil {
			logger.Error("Event consumer failed", logging.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eventConsumer.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited", nil)
}

func initDatabase(cfg *config.Config, logger *logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})

	return db, nil
}
