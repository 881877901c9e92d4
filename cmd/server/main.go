package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/finquest/brokerage-backend/internal/adapter/httpapi"
	"github.com/finquest/brokerage-backend/internal/adapter/market"
	"github.com/finquest/brokerage-backend/internal/adapter/repository/postgres"
	"github.com/finquest/brokerage-backend/internal/usecase/holdings"
	"github.com/finquest/brokerage-backend/internal/usecase/ingestion"
	"github.com/finquest/brokerage-backend/internal/usecase/pricing"
	"github.com/finquest/brokerage-backend/internal/usecase/signup"
	"github.com/finquest/brokerage-backend/internal/usecase/trading"
	"github.com/finquest/brokerage-backend/internal/usecase/valuation"
)

const (
	defaultHTTPAddr = ":8080"

	// Daily bars and snapshot rolls: once a day is all the market gives us
	scheduleInterval = 24 * time.Hour
)

func main() {
	// Load .env when present; real env vars win either way
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// 1. Setup Database
	db, err := postgres.NewDB(dbConnString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. Initialize Repositories (Postgres)
	tickerRepo := postgres.NewTickerRepository(db)
	dailyBarRepo := postgres.NewDailyBarRepository(db)
	portfolioRepo := postgres.NewUserPortfolioRepository(db)
	valueRepo := postgres.NewPortfolioValueRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	tradeWriter := postgres.NewTradeWriter(db)

	// 3. Initialize Services (Use Cases)
	marketClient := market.NewYahooClient()
	pricingService := pricing.NewService(tickerRepo, dailyBarRepo)
	holdingsService := holdings.NewService(portfolioRepo, tickerRepo, transactionRepo)
	tradingEngine := trading.NewEngine(portfolioRepo, tickerRepo, dailyBarRepo, valueRepo, transactionRepo, tradeWriter)
	valuationService := valuation.NewService(portfolioRepo, valueRepo)
	signupService := signup.NewService(portfolioRepo, valueRepo, signupConfig())
	ingestionService := ingestion.NewService(tickerRepo, marketClient)

	// 4. Start the daily scheduler: roll snapshots first so trades have a
	// same-day snapshot to settle against, then pull fresh bars
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	go runScheduler(schedulerCtx, signupService, ingestionService)

	// 5. Start HTTP server
	handler := httpapi.NewHandler(pricingService, holdingsService, tradingEngine, valuationService, signupService, ingestionService)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = defaultHTTPAddr
	}

	server := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(handler),
	}

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	waitForShutdown(server, stopScheduler)
}

// runScheduler triggers the snapshot roll and price ingestion once at
// startup and then once per interval.
func runScheduler(ctx context.Context, signupService *signup.Service, ingestionService *ingestion.Service) {
	run := func() {
		if err := signupService.RollDailySnapshots(ctx); err != nil {
			log.Printf("[scheduler] snapshot roll: %v", err)
		}
		if err := ingestionService.UpdateTickersHistory(ctx); err != nil {
			log.Printf("[scheduler] ticker ingestion: %v", err)
		}
	}

	run()

	ticker := time.NewTicker(scheduleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}

// dbConnString builds the postgres connection string from DB_CONN_STR or
// from the individual DB_* variables (Docker friendly).
func dbConnString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := envOr("DB_PASSWORD", "postgres")
	dbname := envOr("DB_NAME", "brokerage")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// signupConfig reads the signup constants from the environment once, at
// the edge; the services themselves never touch the environment.
func signupConfig() signup.Config {
	cfg := signup.DefaultConfig()
	if currency := os.Getenv("PORTFOLIO_CURRENCY"); currency != "" {
		cfg.Currency = currency
	}
	if raw := os.Getenv("STARTING_CASH"); raw != "" {
		if cash, err := decimal.NewFromString(raw); err == nil {
			cfg.StartingCash = cash
		} else {
			log.Printf("Invalid STARTING_CASH %q, keeping default", raw)
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down
// the server and the scheduler
func waitForShutdown(server *http.Server, stopScheduler context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
