package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetType represents the class of asset a ticker trades as
type AssetType string

const (
	AssetTypeETF AssetType = "ETF"
)

// Ticker represents a tradable instrument in the domain layer.
// Its price history lives in DailyBar rows; the current price is always
// derived from the newest bar, never stored on the ticker itself.
type Ticker struct {
	ID        uuid.UUID
	Symbol    string
	Name      string
	AssetType AssetType
	Currency  string
}

// Validate ensures the ticker adheres to domain rules
// Returns an error if validation fails
func (t *Ticker) Validate() error {
	if t.Symbol == "" {
		return errors.New("ticker symbol cannot be empty")
	}
	if t.Name == "" {
		return errors.New("ticker name cannot be empty")
	}
	if t.AssetType != AssetTypeETF {
		return errors.New("asset type must be ETF")
	}
	return nil
}

// DailyBar represents one calendar day's OHLCV data for a ticker.
// At most one bar may exist per (ticker, day); Date is truncated to
// midnight UTC so that day identity is unambiguous.
type DailyBar struct {
	ID       uuid.UUID
	TickerID uuid.UUID
	Date     time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   int64
}

// Day truncates a timestamp to midnight UTC, the granularity at which
// bars and valuation snapshots are keyed.
func Day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
