package signup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Config carries the signup-time constants. They are injected here rather
// than read from the environment inside domain logic, so the service is
// deterministic under test.
type Config struct {
	StartingCash decimal.Decimal
	Currency     string
}

// DefaultConfig returns the production defaults: 10,000 units of starting
// cash in EUR.
func DefaultConfig() Config {
	return Config{
		StartingCash: decimal.NewFromInt(10000),
		Currency:     "EUR",
	}
}

// Service creates portfolios at user signup and rolls valuation snapshots
// forward each day. The trading engine never creates snapshots itself; it
// requires today's snapshot to already exist, and this service is what
// guarantees that.
type Service struct {
	PortfolioRepo domain.UserPortfolioRepository
	ValueRepo     domain.PortfolioValueRepository

	cfg Config
	now func() time.Time
}

// NewService creates a new signup Service instance
func NewService(
	portfolioRepo domain.UserPortfolioRepository,
	valueRepo domain.PortfolioValueRepository,
	cfg Config,
) *Service {
	return &Service{
		PortfolioRepo: portfolioRepo,
		ValueRepo:     valueRepo,
		cfg:           cfg,
		now:           time.Now,
	}
}

// CreatePortfolio creates the user's portfolio with the fixed starting
// cash balance and zero investments, plus its day-0 valuation snapshot.
// Idempotent: if the user already has a portfolio it is returned as is.
func (s *Service) CreatePortfolio(ctx context.Context, userID uuid.UUID) (*domain.UserPortfolio, error) {
	existing, err := s.PortfolioRepo.GetByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrPortfolioNotFound) {
		return nil, err
	}

	portfolio := &domain.UserPortfolio{
		ID:       uuid.New(),
		UserID:   userID,
		Currency: s.cfg.Currency,
	}
	if err := s.PortfolioRepo.Create(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	value := &domain.PortfolioValue{
		ID:          uuid.New(),
		PortfolioID: portfolio.ID,
		Date:        domain.Day(s.now()),
		Cash:        s.cfg.StartingCash,
		Investments: decimal.Zero,
	}
	if err := s.ValueRepo.Create(ctx, value); err != nil {
		return nil, fmt.Errorf("failed to create initial snapshot: %w", err)
	}

	return portfolio, nil
}

// RollDailySnapshots ensures every portfolio has a snapshot dated today by
// carrying the latest snapshot's balances forward. Portfolios that already
// rolled are skipped; a failure on one portfolio is logged and does not
// block the others.
func (s *Service) RollDailySnapshots(ctx context.Context) error {
	portfolios, err := s.PortfolioRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list portfolios: %w", err)
	}

	today := domain.Day(s.now())
	for _, portfolio := range portfolios {
		if err := s.rollPortfolio(ctx, portfolio.ID, today); err != nil {
			log.Printf("[signup] snapshot roll for portfolio %s: %v", portfolio.ID, err)
		}
	}

	return nil
}

func (s *Service) rollPortfolio(ctx context.Context, portfolioID uuid.UUID, today time.Time) error {
	_, err := s.ValueRepo.GetByPortfolioIDAndDate(ctx, portfolioID, today)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrPortfolioValueNotFound) {
		return err
	}

	latest, err := s.ValueRepo.GetLatestByPortfolioID(ctx, portfolioID)
	if err != nil {
		return fmt.Errorf("no snapshot to roll forward: %w", err)
	}

	return s.ValueRepo.Create(ctx, &domain.PortfolioValue{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		Date:        today,
		Cash:        latest.Cash,
		Investments: latest.Investments,
	})
}
