package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
)

// tickerRepository implements domain.TickerRepository
type tickerRepository struct {
	db *DB
}

// NewTickerRepository creates a new ticker repository
func NewTickerRepository(db *DB) domain.TickerRepository {
	return &tickerRepository{db: db}
}

// Create creates a new ticker
func (r *tickerRepository) Create(ctx context.Context, ticker *domain.Ticker) error {
	query := `
		INSERT INTO tickers (id, symbol, name, asset_type, currency)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		ticker.ID,
		ticker.Symbol,
		ticker.Name,
		string(ticker.AssetType),
		ticker.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ticker: %w", err)
	}

	return nil
}

// GetByID retrieves a ticker by its ID
func (r *tickerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticker, error) {
	query := `
		SELECT id, symbol, name, asset_type, currency
		FROM tickers
		WHERE id = $1
	`
	return r.scanTicker(r.db.QueryRowContext(ctx, query, id))
}

// GetBySymbol retrieves a ticker by its market symbol
func (r *tickerRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Ticker, error) {
	query := `
		SELECT id, symbol, name, asset_type, currency
		FROM tickers
		WHERE symbol = $1
	`
	return r.scanTicker(r.db.QueryRowContext(ctx, query, symbol))
}

// List retrieves all tickers
func (r *tickerRepository) List(ctx context.Context) ([]*domain.Ticker, error) {
	query := `
		SELECT id, symbol, name, asset_type, currency
		FROM tickers
		ORDER BY symbol
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}
	defer rows.Close()

	tickers := make([]*domain.Ticker, 0)
	for rows.Next() {
		var ticker domain.Ticker
		var assetType string
		if err := rows.Scan(&ticker.ID, &ticker.Symbol, &ticker.Name, &assetType, &ticker.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		ticker.AssetType = domain.AssetType(assetType)
		tickers = append(tickers, &ticker)
	}

	return tickers, rows.Err()
}

// Update updates a ticker's mutable attributes
func (r *tickerRepository) Update(ctx context.Context, ticker *domain.Ticker) error {
	query := `
		UPDATE tickers
		SET symbol = $2, name = $3, asset_type = $4, currency = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		ticker.ID,
		ticker.Symbol,
		ticker.Name,
		string(ticker.AssetType),
		ticker.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticker: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ticker %s: %w", ticker.ID, domain.ErrTickerNotFound)
	}

	return nil
}

// Remove deletes a ticker
func (r *tickerRepository) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tickers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticker: %w", err)
	}
	return nil
}

// AddDailyBars merges bars into the ticker's history. The unique
// (ticker_id, date) index plus ON CONFLICT DO NOTHING gives the date-dedup
// semantics: bars for days that already exist are silently dropped, so
// repeated ingestion runs over overlapping windows are idempotent.
func (r *tickerRepository) AddDailyBars(ctx context.Context, tickerID uuid.UUID, bars []*domain.DailyBar) error {
	if len(bars) == 0 {
		return nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO daily_bars (id, ticker_id, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker_id, date) DO NOTHING
	`

	for _, bar := range bars {
		_, err = dbTx.ExecContext(ctx, query,
			bar.ID,
			tickerID,
			bar.Date,
			bar.Open.String(),
			bar.High.String(),
			bar.Low.String(),
			bar.Close.String(),
			bar.Volume,
		)
		if err != nil {
			return fmt.Errorf("failed to insert daily bar: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit daily bars: %w", err)
	}

	return nil
}

func (r *tickerRepository) scanTicker(row *sql.Row) (*domain.Ticker, error) {
	var ticker domain.Ticker
	var assetType string

	err := row.Scan(&ticker.ID, &ticker.Symbol, &ticker.Name, &assetType, &ticker.Currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTickerNotFound
		}
		return nil, fmt.Errorf("failed to get ticker: %w", err)
	}

	ticker.AssetType = domain.AssetType(assetType)
	return &ticker, nil
}
