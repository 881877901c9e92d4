package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserPortfolio represents a user's brokerage account in the domain layer.
// One portfolio exists per user, created at signup with a fixed starting
// cash balance and zero investments.
type UserPortfolio struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Currency string
}

// PortfolioValue is a dated snapshot of a portfolio's cash and investment
// totals. Exactly one snapshot exists per (portfolio, day); trades executed
// on that day mutate the snapshot in place rather than creating a new row.
type PortfolioValue struct {
	ID          uuid.UUID
	PortfolioID uuid.UUID
	Date        time.Time
	Cash        decimal.Decimal
	Investments decimal.Decimal
}

// TotalValue returns cash plus investments, the figure used when comparing
// snapshots over a valuation window.
func (v *PortfolioValue) TotalValue() decimal.Decimal {
	return v.Cash.Add(v.Investments)
}
