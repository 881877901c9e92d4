package holdings

import (
	"context"
	"fmt"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position is the derived net holding of a (portfolio, ticker) pair:
// shares held and the monetary amount invested, both obtained by replaying
// the ledger.
type Position struct {
	TickerID uuid.UUID
	Shares   decimal.Decimal
	Amount   decimal.Decimal
}

// Service derives holdings by replaying the append-only transaction
// ledger. It never stores holdings; the ledger is the single source of
// truth and the replay is a pure read.
type Service struct {
	PortfolioRepo   domain.UserPortfolioRepository
	TickerRepo      domain.TickerRepository
	TransactionRepo domain.TransactionRepository
}

// NewService creates a new holdings Service instance
func NewService(
	portfolioRepo domain.UserPortfolioRepository,
	tickerRepo domain.TickerRepository,
	transactionRepo domain.TransactionRepository,
) *Service {
	return &Service{
		PortfolioRepo:   portfolioRepo,
		TickerRepo:      tickerRepo,
		TransactionRepo: transactionRepo,
	}
}

// Replay accumulates net shares and invested amount over a transaction
// list. BUY adds volume/amount, SELL subtracts them; the sum is
// order-independent. No floor is enforced: a net-negative result is
// tolerated here because the true constraint is checked at write time by
// the transaction engine.
func Replay(txs []*domain.Transaction) (shares, amount decimal.Decimal) {
	shares = decimal.Zero
	amount = decimal.Zero
	for _, tx := range txs {
		sign := tx.Direction.Sign()
		shares = shares.Add(tx.Volume.Mul(sign))
		amount = amount.Add(tx.Amount.Mul(sign))
	}
	return shares, amount
}

// GetPossessedValue replays the ledger for one (user portfolio, ticker)
// pair and returns the derived position.
func (s *Service) GetPossessedValue(ctx context.Context, userID, tickerID uuid.UUID) (*Position, error) {
	portfolio, err := s.PortfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.TickerRepo.GetByID(ctx, tickerID); err != nil {
		return nil, err
	}

	txs, err := s.TransactionRepo.ListByPortfolioIDAndTickerID(ctx, portfolio.ID, tickerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	shares, amount := Replay(txs)

	return &Position{
		TickerID: tickerID,
		Shares:   shares,
		Amount:   amount,
	}, nil
}

// ListHoldings groups the portfolio's whole ledger by ticker, replays each
// group and returns the resulting positions. Tickers whose net shares are
// zero or negative are omitted from the listing.
func (s *Service) ListHoldings(ctx context.Context, userID uuid.UUID) ([]Position, error) {
	portfolio, err := s.PortfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	txs, err := s.TransactionRepo.ListByPortfolioID(ctx, portfolio.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	// Group by ticker, preserving first-seen order for a stable listing
	order := make([]uuid.UUID, 0)
	grouped := make(map[uuid.UUID][]*domain.Transaction)
	for _, tx := range txs {
		if _, seen := grouped[tx.TickerID]; !seen {
			order = append(order, tx.TickerID)
		}
		grouped[tx.TickerID] = append(grouped[tx.TickerID], tx)
	}

	positions := make([]Position, 0, len(order))
	for _, tickerID := range order {
		shares, amount := Replay(grouped[tickerID])
		if shares.LessThanOrEqual(decimal.Zero) {
			continue
		}
		positions = append(positions, Position{
			TickerID: tickerID,
			Shares:   shares,
			Amount:   amount,
		})
	}

	return positions, nil
}
