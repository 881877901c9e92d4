package ingestion

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
)

// Service merges market-feed bars into each ticker's history. Runs on a
// daily schedule, independent of user requests.
type Service struct {
	TickerRepo domain.TickerRepository
	Market     domain.MarketService
}

// NewService creates a new ingestion Service instance
func NewService(tickerRepo domain.TickerRepository, market domain.MarketService) *Service {
	return &Service{
		TickerRepo: tickerRepo,
		Market:     market,
	}
}

// UpdateTickersHistory fetches the latest daily bars for every known
// ticker and merges them into its history. An empty feed response leaves
// the ticker untouched; a failure on one ticker is logged and does not
// block the others. Date-level dedup in the repository makes repeated runs
// over overlapping windows idempotent.
func (s *Service) UpdateTickersHistory(ctx context.Context) error {
	tickers, err := s.TickerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tickers: %w", err)
	}

	for _, ticker := range tickers {
		if err := s.updateTicker(ctx, ticker); err != nil {
			log.Printf("[ingestion] ticker %s: %v", ticker.Symbol, err)
		}
	}

	return nil
}

func (s *Service) updateTicker(ctx context.Context, ticker *domain.Ticker) error {
	bars, err := s.Market.GetLatestDailyBars(ctx, ticker.Symbol)
	if err != nil {
		return fmt.Errorf("failed to fetch bars: %w", err)
	}
	if len(bars) == 0 {
		// Nothing published for the symbol: deliberate no-op
		return nil
	}

	merged := normalizeBars(ticker.ID, bars)
	if err := s.TickerRepo.AddDailyBars(ctx, ticker.ID, merged); err != nil {
		return fmt.Errorf("failed to merge bars: %w", err)
	}

	return nil
}

// normalizeBars prepares feed bars for merging: dates truncated to the
// day, sorted ascending, duplicate days within the batch dropped, ids and
// ticker ownership assigned.
func normalizeBars(tickerID uuid.UUID, bars []*domain.DailyBar) []*domain.DailyBar {
	sorted := make([]*domain.DailyBar, len(bars))
	copy(sorted, bars)
	for _, bar := range sorted {
		bar.Date = domain.Day(bar.Date)
		bar.TickerID = tickerID
		if bar.ID == uuid.Nil {
			bar.ID = uuid.New()
		}
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	deduped := make([]*domain.DailyBar, 0, len(sorted))
	for i, bar := range sorted {
		if i > 0 && bar.Date.Equal(sorted[i-1].Date) {
			continue
		}
		deduped = append(deduped, bar)
	}

	return deduped
}
