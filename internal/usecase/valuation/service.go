package valuation

import (
	"context"
	"fmt"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
)

const (
	monthlyThreshold = 90
	weeklyThreshold  = 30

	monthlyChunk = 30
	weeklyChunk  = 7
)

// PositionsResult is the chart-ready valuation series for a portfolio.
// Positions is the (possibly downsampled) chronological series; Total is
// the unbucketed snapshot count, deliberately independent of the bucketing
// applied to Positions.
type PositionsResult struct {
	Positions []*domain.PortfolioValue
	Total     int
	Variation domain.Variation
}

// Service aggregates a portfolio's daily valuation snapshots into a
// display-ready series. All operations are read-only.
type Service struct {
	PortfolioRepo domain.UserPortfolioRepository
	ValueRepo     domain.PortfolioValueRepository
}

// NewService creates a new valuation Service instance
func NewService(portfolioRepo domain.UserPortfolioRepository, valueRepo domain.PortfolioValueRepository) *Service {
	return &Service{
		PortfolioRepo: portfolioRepo,
		ValueRepo:     valueRepo,
	}
}

// GetPortfolioPositions resolves the user's portfolio, loads its full
// snapshot series in chronological order and buckets it by the requested
// window: limit > 90 collapses chunks of 30 snapshots (monthly), limit in
// (30, 90] chunks of 7 (weekly), anything else keeps daily granularity.
// limit <= 0 means unset. The variation compares the total value of the
// first returned point against the last.
func (s *Service) GetPortfolioPositions(ctx context.Context, userID uuid.UUID, limit int) (*PositionsResult, error) {
	portfolio, err := s.PortfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.ValueRepo.CountByPortfolioID(ctx, portfolio.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count snapshots: %w", err)
	}

	// The full series drives the bucketing; limit only picks granularity
	values, err := s.ValueRepo.ListByPortfolioID(ctx, portfolio.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	// Repo returns newest first; the chart wants chronological order
	reverse(values)

	positions := downsample(values, chunkSize(limit))

	variation := domain.ZeroVariation()
	if len(positions) > 1 {
		first := positions[0].TotalValue()
		last := positions[len(positions)-1].TotalValue()
		variation = domain.CompareValues(last, first)
	}

	return &PositionsResult{
		Positions: positions,
		Total:     total,
		Variation: variation,
	}, nil
}

// chunkSize maps the requested window to a bucket size. 1 means no
// downsampling.
func chunkSize(limit int) int {
	switch {
	case limit > monthlyThreshold:
		return monthlyChunk
	case limit > weeklyThreshold:
		return weeklyChunk
	default:
		return 1
	}
}

// downsample collapses consecutive chronological chunks of size into one
// synthetic point each, carrying the last snapshot of the chunk
// (last-value-wins, not an average). A trailing partial chunk collapses
// the same way.
func downsample(values []*domain.PortfolioValue, size int) []*domain.PortfolioValue {
	if size <= 1 || len(values) == 0 {
		return values
	}

	buckets := make([]*domain.PortfolioValue, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		buckets = append(buckets, values[end-1])
	}
	return buckets
}

func reverse(values []*domain.PortfolioValue) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}
