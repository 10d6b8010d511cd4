package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0Bleak/order-service/internal/config"
	"github.com/0Bleak/order-service/internal/discovery"
	"github.com/0Bleak/order-service/internal/handlers"
	"github.com/0Bleak/order-service/internal/logging"
	"github.com/0Bleak/order-service/internal/messaging"
	"github.com/0Bleak/order-service/internal/middleware"
	"github.com/0Bleak/order-service/internal/models"
	"github.com/0Bleak/order-service/internal/repository"
	"github.com/0Bleak/order-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const serviceName = "order-service"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func run() error {
	issueToken := flag.String("issue-token", "", "print a signed token for this subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of tokens printed by -issue-token")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *issueToken != "" {
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET must be set to issue tokens")
		}
		token, err := middleware.IssueToken(cfg.JWTSecret, *issueToken, *tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	stores, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	defer stores.close()

	var producer messaging.Publisher
	if cfg.KafkaEnabled() {
		producer = messaging.NewKafkaProducer(cfg.KafkaBrokers, cfg.OrderTopic, cfg.InventoryTopic)
		logger.Info("kafka producer initialized", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		producer = messaging.NewLogPublisher(logger)
		logger.Info("KAFKA_BROKERS not set, events will only be logged")
	}
	defer producer.Close()

	userService := service.NewUserService(stores.users, logger)
	productService := service.NewProductService(stores.products)
	inventoryService := service.NewInventoryService(stores.inventory, producer, logger)
	orderService := service.NewOrderService(stores.orders, stores.users, stores.products, stores.inventory, producer, logger)

	consumeCtx, stopConsuming := context.WithCancel(context.Background())
	defer stopConsuming()

	if cfg.KafkaEnabled() {
		consumer := messaging.NewKafkaConsumer(cfg.KafkaBrokers, cfg.FulfillTopic, cfg.KafkaGroupID, logger)
		defer consumer.Close()

		go func() {
			if err := consumer.ConsumeFulfillmentEvents(consumeCtx, orderService); err != nil {
				logger.Error("fulfillment consumer stopped", zap.Error(err))
			}
		}()
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS))
	if cfg.JWTSecret != "" {
		router.Use(middleware.Auth(cfg.JWTSecret))
	} else {
		logger.Warn("JWT_SECRET not set, mutating routes are unauthenticated")
	}

	handlers.RegisterHealth(router)
	handlers.NewUserHandler(userService).RegisterRoutes(router)
	handlers.NewProductHandler(productService).RegisterRoutes(router)
	handlers.NewInventoryHandler(inventoryService).RegisterRoutes(router)
	handlers.NewOrderHandler(orderService).RegisterRoutes(router)

	if cfg.ConsulAddr != "" {
		consulClient, err := discovery.NewConsulClient(cfg.ConsulAddr)
		if err != nil {
			return err
		}

		serviceID := fmt.Sprintf("%s-%s", serviceName, cfg.ServiceID)
		if err := consulClient.RegisterService(serviceID, serviceName, cfg.ServiceHost, cfg.ServerPort); err != nil {
			return err
		}
		logger.Info("registered with consul", zap.String("service_id", serviceID))

		defer func() {
			if err := consulClient.DeregisterService(serviceID); err != nil {
				logger.Error("failed to deregister service", zap.Error(err))
			}
		}()
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting order-service",
			zap.String("port", cfg.ServerPort),
			zap.String("storage", cfg.StorageDriver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	stopConsuming()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited gracefully")
	return nil
}

type stores struct {
	users     repository.UserRepository
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	orders    repository.OrderRepository
	closers   []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects PostgreSQL and MongoDB, or builds the in-memory
// store when STORAGE_DRIVER=memory.
func openStores(cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return &stores{
			users:     repository.NewMemoryUserRepository(),
			products:  repository.NewMemoryProductRepository(),
			inventory: repository.NewMemoryInventoryRepository(models.NewInventory()),
			orders:    repository.NewMemoryOrderRepository(),
		}, nil
	}

	s := &stores{}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s.closers = append(s.closers, func() { db.Close() })
	logger.Info("connected to PostgreSQL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repository.RunMigrations(ctx, db); err != nil {
		s.close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	s.closers = append(s.closers, func() { mongoClient.Disconnect(context.Background()) })

	if err := mongoClient.Ping(ctx, nil); err != nil {
		s.close()
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDB))

	productRepo := repository.NewProductRepository(mongoClient.Database(cfg.MongoDB))
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to create product indexes", zap.Error(err))
	}

	s.users = repository.NewUserRepository(db)
	s.products = productRepo
	s.inventory = repository.NewInventoryRepository(db)
	s.orders = repository.NewOrderRepository(db)
	return s, nil
}
