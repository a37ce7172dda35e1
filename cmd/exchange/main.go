package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmanzanog/stock-exchange/internal/application"
	"github.com/jmanzanog/stock-exchange/internal/domain"
	"github.com/jmanzanog/stock-exchange/internal/infrastructure/config"
	gormstore "github.com/jmanzanog/stock-exchange/internal/infrastructure/persistence/gorm"
	"github.com/jmanzanog/stock-exchange/internal/infrastructure/persistence/memory"
	"github.com/jmanzanog/stock-exchange/internal/infrastructure/persistence/sqldb"
	httpHandler "github.com/jmanzanog/stock-exchange/internal/interfaces/http"
	"github.com/jmanzanog/stock-exchange/internal/notification"
	"github.com/joho/godotenv"
	_ "github.com/sijms/go-ora/v2"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupLogger configures and returns a structured logger with source information
func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     lvl,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// repositories bundles the persistence ports plus a close hook for whichever
// backend the configuration selected.
type repositories struct {
	Stocks       domain.StockRepository
	Transactions domain.TransactionRepository
	Brokers      domain.BrokerRepository
	Close        func() error
}

// initializeRepositories sets up the configured backend and runs migrations
func initializeRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.DBDriver {
	case config.DBDriverPostgres, config.DBDriverOracle:
		return initializeSQL(cfg)
	case config.DBDriverGorm:
		return initializeGorm(cfg)
	case config.DBDriverMemory:
		return initializeMemory(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
}

func initializeSQL(cfg *config.Config) (*repositories, error) {
	var db *sql.DB
	var dialect sqldb.Dialect
	var err error

	switch cfg.DBDriver {
	case config.DBDriverPostgres:
		db, err = sql.Open("pgx", cfg.DBDSN)
		dialect = &sqldb.PostgresDialect{}
	case config.DBDriverOracle:
		db, err = sql.Open("oracle", cfg.DBDSN)
		dialect = &sqldb.OracleDialect{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapper := sqldb.New(db, dialect)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := wrapper.Dialect.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if cfg.SeedDatabase {
		if err := sqldb.Seed(ctx, wrapper); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return &repositories{
		Stocks:       sqldb.NewStockRepository(wrapper),
		Transactions: sqldb.NewTransactionRepository(wrapper),
		Brokers:      sqldb.NewBrokerRepository(wrapper),
		Close:        db.Close,
	}, nil
}

func initializeGorm(cfg *config.Config) (*repositories, error) {
	db, err := gorm.Open(gormpg.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := gormstore.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if cfg.SeedDatabase {
		if err := gormstore.Seed(db); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}

	return &repositories{
		Stocks:       gormstore.NewStockRepository(db),
		Transactions: gormstore.NewTransactionRepository(db),
		Brokers:      gormstore.NewBrokerRepository(db),
		Close:        sqlDB.Close,
	}, nil
}

func initializeMemory(cfg *config.Config) (*repositories, error) {
	store := memory.NewStore()

	if cfg.SeedDatabase {
		if err := store.Seed(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}

	return &repositories{
		Stocks:       store.Stocks(),
		Transactions: store.Transactions(),
		Brokers:      store.Brokers(),
		Close:        func() error { return nil },
	}, nil
}

// buildServer creates and configures the HTTP server with all routes and handlers
func buildServer(cfg *config.Config, stockService *application.StockService, tradeService *application.TradeService, broker *notification.Broker) *http.Server {
	router := gin.Default()
	handler := httpHandler.NewHandler(stockService, tradeService)
	stream := httpHandler.NewStreamHandler(broker)
	httpHandler.SetupRoutes(router, handler, stream)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server
}

// App wraps the application components for easier testing
type App struct {
	Server *http.Server
	Broker *notification.Broker
	Close  func() error
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	a.Broker.Close()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.Close(); err != nil {
		return fmt.Errorf("storage close error: %w", err)
	}

	return nil
}

// run contains the main application logic without os.Exit calls
// This makes it testeable
func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogger(cfg.LogLevel)
	slog.Info("Using storage backend", "driver", cfg.DBDriver)

	repos, err := initializeRepositories(cfg)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	broker := notification.NewBroker(cfg.StreamChannelSize)

	stockService := application.NewStockService(repos.Stocks)
	tradeService := application.NewTradeService(repos.Stocks, repos.Transactions, broker)

	server := buildServer(cfg, stockService, tradeService, broker)

	app := &App{
		Server: server,
		Broker: broker,
		Close:  repos.Close,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "host", cfg.ServerHost, "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	// Wait for termination signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
