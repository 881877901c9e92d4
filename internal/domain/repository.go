package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TickerRepository defines the interface for ticker persistence operations
type TickerRepository interface {
	// Create creates a new ticker
	Create(ctx context.Context, ticker *Ticker) error

	// GetByID retrieves a ticker by its ID
	// Returns ErrTickerNotFound if no ticker exists
	GetByID(ctx context.Context, id uuid.UUID) (*Ticker, error)

	// GetBySymbol retrieves a ticker by its market symbol
	GetBySymbol(ctx context.Context, symbol string) (*Ticker, error)

	// List retrieves all tickers
	List(ctx context.Context) ([]*Ticker, error)

	// Update updates a ticker's mutable attributes
	Update(ctx context.Context, ticker *Ticker) error

	// Remove deletes a ticker
	Remove(ctx context.Context, id uuid.UUID) error

	// AddDailyBars merges bars into the ticker's history with date-dedup
	// semantics: a bar whose (ticker, day) already exists is silently
	// dropped, which makes repeated ingestion runs idempotent.
	AddDailyBars(ctx context.Context, tickerID uuid.UUID, bars []*DailyBar) error
}

// DailyBarRepository defines the interface for daily bar persistence operations
type DailyBarRepository interface {
	// Create creates a single daily bar
	Create(ctx context.Context, bar *DailyBar) error

	// GetByTickerIDAndDate retrieves the bar for a ticker on a specific day
	// Returns ErrDailyBarNotFound if no bar exists for that day
	GetByTickerIDAndDate(ctx context.Context, tickerID uuid.UUID, date time.Time) (*DailyBar, error)

	// ListByTickerID retrieves up to limit bars for a ticker, newest first.
	// limit <= 0 means no limit.
	ListByTickerID(ctx context.Context, tickerID uuid.UUID, limit int) ([]*DailyBar, error)

	// Remove deletes a daily bar
	Remove(ctx context.Context, id uuid.UUID) error
}

// UserPortfolioRepository defines the interface for portfolio persistence operations
type UserPortfolioRepository interface {
	// Create creates a new portfolio
	Create(ctx context.Context, portfolio *UserPortfolio) error

	// GetByID retrieves a portfolio by its ID
	// Returns ErrPortfolioNotFound if no portfolio exists
	GetByID(ctx context.Context, id uuid.UUID) (*UserPortfolio, error)

	// GetByUserID retrieves the portfolio owned by a user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*UserPortfolio, error)

	// List retrieves all portfolios
	List(ctx context.Context) ([]*UserPortfolio, error)

	// Remove deletes a portfolio
	Remove(ctx context.Context, id uuid.UUID) error
}

// PortfolioValueRepository defines the interface for valuation snapshot
// persistence operations
type PortfolioValueRepository interface {
	// Create creates a new snapshot
	Create(ctx context.Context, value *PortfolioValue) error

	// Update mutates an existing snapshot in place
	Update(ctx context.Context, value *PortfolioValue) error

	// GetByPortfolioIDAndDate retrieves the snapshot for a specific day
	// Returns ErrPortfolioValueNotFound if no snapshot exists for that day
	GetByPortfolioIDAndDate(ctx context.Context, portfolioID uuid.UUID, date time.Time) (*PortfolioValue, error)

	// GetLatestByPortfolioID retrieves the most recent snapshot
	GetLatestByPortfolioID(ctx context.Context, portfolioID uuid.UUID) (*PortfolioValue, error)

	// ListByPortfolioID retrieves up to limit snapshots, newest first.
	// limit <= 0 means no limit.
	ListByPortfolioID(ctx context.Context, portfolioID uuid.UUID, limit int) ([]*PortfolioValue, error)

	// CountByPortfolioID returns the total number of snapshots for a portfolio
	CountByPortfolioID(ctx context.Context, portfolioID uuid.UUID) (int, error)
}

// TransactionRepository defines the interface for ledger persistence
// operations. The ledger is append-only: there is no update or delete.
type TransactionRepository interface {
	// Create appends a new transaction to the ledger
	Create(ctx context.Context, tx *Transaction) error

	// ListByPortfolioID retrieves all transactions for a portfolio
	ListByPortfolioID(ctx context.Context, portfolioID uuid.UUID) ([]*Transaction, error)

	// ListByPortfolioIDAndTickerID retrieves all transactions for a
	// (portfolio, ticker) pair
	ListByPortfolioIDAndTickerID(ctx context.Context, portfolioID, tickerID uuid.UUID) ([]*Transaction, error)
}

// TradeWriter persists the outcome of a trade atomically: the updated
// valuation snapshot and the appended transaction either both become
// visible or neither does.
type TradeWriter interface {
	CommitTrade(ctx context.Context, value *PortfolioValue, tx *Transaction) error
}

// MarketService supplies the latest daily bars for a symbol from an
// external market-data feed. An empty slice with a nil error means the
// feed had nothing for the symbol; callers treat that as a no-op.
type MarketService interface {
	GetLatestDailyBars(ctx context.Context, symbol string) ([]*DailyBar, error)
}
