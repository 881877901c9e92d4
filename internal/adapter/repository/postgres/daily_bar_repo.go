package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dailyBarRepository implements domain.DailyBarRepository
type dailyBarRepository struct {
	db *DB
}

// NewDailyBarRepository creates a new daily bar repository
func NewDailyBarRepository(db *DB) domain.DailyBarRepository {
	return &dailyBarRepository{db: db}
}

// Create creates a single daily bar
func (r *dailyBarRepository) Create(ctx context.Context, bar *domain.DailyBar) error {
	query := `
		INSERT INTO daily_bars (id, ticker_id, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		bar.ID,
		bar.TickerID,
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

	return nil
}

// GetByTickerIDAndDate retrieves the bar for a ticker on a specific day
func (r *dailyBarRepository) GetByTickerIDAndDate(ctx context.Context, tickerID uuid.UUID, date time.Time) (*domain.DailyBar, error) {
	query := `
		SELECT id, ticker_id, date, open, high, low, close, volume
		FROM daily_bars
		WHERE ticker_id = $1 AND date = $2
	`

	bar, err := scanBarFrom(r.db.QueryRowContext(ctx, query, tickerID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDailyBarNotFound
		}
		return nil, err
	}
	return bar, nil
}

// ListByTickerID retrieves up to limit bars for a ticker, newest first
func (r *dailyBarRepository) ListByTickerID(ctx context.Context, tickerID uuid.UUID, limit int) ([]*domain.DailyBar, error) {
	query := `
		SELECT id, ticker_id, date, open, high, low, close, volume
		FROM daily_bars
		WHERE ticker_id = $1
		ORDER BY date DESC
	`

	args := []any{tickerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily bars: %w", err)
	}
	defer rows.Close()

	bars := make([]*domain.DailyBar, 0)
	for rows.Next() {
		bar, err := scanBarFrom(rows)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}

	return bars, rows.Err()
}

// Remove deletes a daily bar
func (r *dailyBarRepository) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM daily_bars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete daily bar: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBarFrom(scanner rowScanner) (*domain.DailyBar, error) {
	var bar domain.DailyBar
	var open, high, low, closePrice string

	err := scanner.Scan(&bar.ID, &bar.TickerID, &bar.Date, &open, &high, &low, &closePrice, &bar.Volume)
	if err != nil {
		return nil, err
	}

	if bar.Open, err = decimal.NewFromString(open); err != nil {
		return nil, fmt.Errorf("failed to parse open: %w", err)
	}
	if bar.High, err = decimal.NewFromString(high); err != nil {
		return nil, fmt.Errorf("failed to parse high: %w", err)
	}
	if bar.Low, err = decimal.NewFromString(low); err != nil {
		return nil, fmt.Errorf("failed to parse low: %w", err)
	}
	if bar.Close, err = decimal.NewFromString(closePrice); err != nil {
		return nil, fmt.Errorf("failed to parse close: %w", err)
	}

	return &bar, nil
}
