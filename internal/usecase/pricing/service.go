package pricing

import (
	"context"
	"fmt"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// Bounds for the windowed-history limit, inclusive
	MinHistoryLimit = 1
	MaxHistoryLimit = 365
)

// TickerWithPrice is a listing row: a ticker, its current price (the close
// of its newest bar) and the day-over-day variation.
type TickerWithPrice struct {
	Ticker    *domain.Ticker
	Price     decimal.Decimal
	Variation domain.Variation
}

// HistoryResult carries a ticker's most recent bars, newest first, and the
// variation across the fetched window (newest close vs oldest close).
type HistoryResult struct {
	History   []*domain.DailyBar
	Variation domain.Variation
}

// Service derives current prices and period-over-period variations from
// persisted daily bars. All operations are read-only.
type Service struct {
	TickerRepo   domain.TickerRepository
	DailyBarRepo domain.DailyBarRepository
}

// NewService creates a new pricing Service instance
func NewService(tickerRepo domain.TickerRepository, dailyBarRepo domain.DailyBarRepository) *Service {
	return &Service{
		TickerRepo:   tickerRepo,
		DailyBarRepo: dailyBarRepo,
	}
}

// ListTickersWithPrice returns every ticker that has at least one bar,
// with its latest close and the variation against the previous close.
// Tickers with no history are filtered out of the listing rather than
// failing the whole call.
func (s *Service) ListTickersWithPrice(ctx context.Context) ([]TickerWithPrice, error) {
	tickers, err := s.TickerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}

	result := make([]TickerWithPrice, 0, len(tickers))
	for _, ticker := range tickers {
		// Two newest bars are enough for the day-over-day comparison
		bars, err := s.DailyBarRepo.ListByTickerID(ctx, ticker.ID, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch bars for ticker %s: %w", ticker.Symbol, err)
		}
		if len(bars) == 0 {
			continue
		}

		variation := domain.ZeroVariation()
		if len(bars) > 1 {
			variation = domain.CompareValues(bars[0].Close, bars[1].Close)
		}

		result = append(result, TickerWithPrice{
			Ticker:    ticker,
			Price:     bars[0].Close,
			Variation: variation,
		})
	}

	return result, nil
}

// GetTickerPrice returns the close of the ticker's newest bar.
// Returns ErrEmptyTickerHistory when the ticker has no bars.
func (s *Service) GetTickerPrice(ctx context.Context, tickerID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.TickerRepo.GetByID(ctx, tickerID); err != nil {
		return decimal.Zero, err
	}

	bars, err := s.DailyBarRepo.ListByTickerID(ctx, tickerID, 1)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch bars: %w", err)
	}
	if len(bars) == 0 {
		return decimal.Zero, domain.ErrEmptyTickerHistory
	}

	return bars[0].Close, nil
}

// GetTickerHistory returns the ticker's most recent limit bars, newest
// first, and the variation of the newest close against the oldest close in
// the window. limit must be within [1, 365]; zero or one bar yields a flat
// variation.
func (s *Service) GetTickerHistory(ctx context.Context, tickerID uuid.UUID, limit int) (*HistoryResult, error) {
	if limit < MinHistoryLimit || limit > MaxHistoryLimit {
		return nil, domain.ErrInvalidHistoryLimit
	}

	if _, err := s.TickerRepo.GetByID(ctx, tickerID); err != nil {
		return nil, err
	}

	bars, err := s.DailyBarRepo.ListByTickerID(ctx, tickerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bars: %w", err)
	}

	variation := domain.ZeroVariation()
	if len(bars) > 1 {
		// bars are newest-first: compare the window edges
		variation = domain.CompareValues(bars[0].Close, bars[len(bars)-1].Close)
	}

	return &HistoryResult{
		History:   bars,
		Variation: variation,
	}, nil
}
