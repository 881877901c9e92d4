package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/finquest/brokerage-backend/internal/usecase/holdings"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Command is a request to execute one trade. Amount is the monetary amount
// to trade; the share volume is derived from it at today's close price.
type Command struct {
	PortfolioID uuid.UUID
	TickerID    uuid.UUID
	Direction   domain.TransactionDirection
	Amount      decimal.Decimal
}

// Result exposes the portfolio state after a committed trade: the updated
// cash and investment balances and the post-trade value of the traded
// ticker's holdings.
type Result struct {
	Cash           decimal.Decimal
	Investments    decimal.Decimal
	TickerHoldings decimal.Decimal
}

// Engine validates and executes buy/sell trades. Each call ends in exactly
// one of two outcomes: committed (snapshot updated and ledger entry
// appended, atomically) or rejected (no state touched). Trades on the same
// portfolio are serialized with a per-portfolio lock.
type Engine struct {
	PortfolioRepo   domain.UserPortfolioRepository
	TickerRepo      domain.TickerRepository
	DailyBarRepo    domain.DailyBarRepository
	ValueRepo       domain.PortfolioValueRepository
	TransactionRepo domain.TransactionRepository
	Writer          domain.TradeWriter

	locks *portfolioLocks
	now   func() time.Time
}

// NewEngine creates a new trading Engine instance
func NewEngine(
	portfolioRepo domain.UserPortfolioRepository,
	tickerRepo domain.TickerRepository,
	dailyBarRepo domain.DailyBarRepository,
	valueRepo domain.PortfolioValueRepository,
	transactionRepo domain.TransactionRepository,
	writer domain.TradeWriter,
) *Engine {
	return &Engine{
		PortfolioRepo:   portfolioRepo,
		TickerRepo:      tickerRepo,
		DailyBarRepo:    dailyBarRepo,
		ValueRepo:       valueRepo,
		TransactionRepo: transactionRepo,
		Writer:          writer,
		locks:           newPortfolioLocks(),
		now:             time.Now,
	}
}

// ExecuteTransaction runs the trade state machine.
// Preconditions, checked in order:
//  1. the portfolio exists
//  2. the ticker exists
//  3. a bar dated today exists for the ticker (no fallback to older bars:
//     trading without a same-day price point is refused)
//  4. today's valuation snapshot exists (created at signup/day-roll, never
//     lazily by the trade itself)
//
// Execution applies one sign-parametrized transition: BUY moves amount from
// cash to investments, SELL the inverse, after the affordability check.
func (e *Engine) ExecuteTransaction(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidTradeAmount
	}
	if cmd.Direction != domain.TransactionBuy && cmd.Direction != domain.TransactionSell {
		return nil, domain.ErrInvalidTradeDirection
	}

	// Serialize the read-modify-write per portfolio
	lock := e.locks.get(cmd.PortfolioID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := e.PortfolioRepo.GetByID(ctx, cmd.PortfolioID); err != nil {
		return nil, err
	}

	if _, err := e.TickerRepo.GetByID(ctx, cmd.TickerID); err != nil {
		return nil, err
	}

	executedAt := e.now()
	today := domain.Day(executedAt)

	bar, err := e.DailyBarRepo.GetByTickerIDAndDate(ctx, cmd.TickerID, today)
	if err != nil {
		return nil, err
	}

	value, err := e.ValueRepo.GetByPortfolioIDAndDate(ctx, cmd.PortfolioID, today)
	if err != nil {
		return nil, err
	}

	sharePrice := bar.Close
	volume := cmd.Amount.Div(sharePrice)

	// Current net holdings for the traded ticker, needed for the SELL
	// affordability check and for the post-trade holdings figure
	txs, err := e.TransactionRepo.ListByPortfolioIDAndTickerID(ctx, cmd.PortfolioID, cmd.TickerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	netShares, _ := holdings.Replay(txs)

	switch cmd.Direction {
	case domain.TransactionBuy:
		if value.Cash.LessThan(cmd.Amount) {
			return nil, domain.ErrInsufficientCash
		}
	case domain.TransactionSell:
		if netShares.Mul(sharePrice).LessThan(cmd.Amount) {
			return nil, domain.ErrInsufficientHoldings
		}
	}

	sign := cmd.Direction.Sign()
	value.Cash = value.Cash.Sub(cmd.Amount.Mul(sign))
	value.Investments = value.Investments.Add(cmd.Amount.Mul(sign))

	tx := &domain.Transaction{
		ID:          uuid.New(),
		PortfolioID: cmd.PortfolioID,
		TickerID:    cmd.TickerID,
		Direction:   cmd.Direction,
		Amount:      cmd.Amount,
		Volume:      volume,
		Price:       sharePrice,
		ExecutedAt:  executedAt,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	// Snapshot update and ledger append become visible together or not at all
	if err := e.Writer.CommitTrade(ctx, value, tx); err != nil {
		return nil, fmt.Errorf("failed to commit trade: %w", err)
	}

	postShares := netShares.Add(volume.Mul(sign))

	return &Result{
		Cash:           value.Cash,
		Investments:    value.Investments,
		TickerHoldings: postShares.Mul(sharePrice).Round(2),
	}, nil
}
