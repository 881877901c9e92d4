package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDirection represents the direction of a trade
type TransactionDirection string

const (
	TransactionBuy  TransactionDirection = "BUY"
	TransactionSell TransactionDirection = "SELL"
)

// Sign returns +1 for BUY and -1 for SELL. Cash, investments and share
// deltas are all the same transition with this sign applied, so the engine
// carries a single code path for both directions.
func (d TransactionDirection) Sign() decimal.Decimal {
	if d == TransactionSell {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Transaction represents an immutable ledger entry for one executed trade.
// Transactions are append-only: holdings are derived by replaying them,
// never stored as a separate mutable counter.
type Transaction struct {
	ID          uuid.UUID
	PortfolioID uuid.UUID
	TickerID    uuid.UUID
	Direction   TransactionDirection
	Amount      decimal.Decimal // monetary amount traded (always positive)
	Volume      decimal.Decimal // shares traded, amount / execution price
	Price       decimal.Decimal // close price at execution
	ExecutedAt  time.Time
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.Direction != TransactionBuy && t.Direction != TransactionSell {
		return errors.New("transaction direction must be BUY or SELL")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive")
	}
	if t.Volume.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction volume must be positive")
	}
	if t.Price.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction price must be positive")
	}
	return nil
}
