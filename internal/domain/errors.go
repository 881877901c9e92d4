package domain

import "errors"

// Domain errors are sentinel values so that callers and the transport
// boundary can branch on them with errors.Is. All of them are expected,
// recoverable failures; none is fatal to the process.
var (
	// Missing prerequisite state (404-equivalent at the boundary)
	ErrPortfolioNotFound      = errors.New("portfolio not found")
	ErrTickerNotFound         = errors.New("ticker not found")
	ErrDailyBarNotFound       = errors.New("no daily bar for ticker on requested date")
	ErrPortfolioValueNotFound = errors.New("no portfolio value snapshot for requested date")

	// Input validation (400-equivalent)
	ErrInvalidHistoryLimit   = errors.New("history limit must be between 1 and 365")
	ErrInvalidTradeAmount    = errors.New("trade amount must be positive")
	ErrInvalidTradeDirection = errors.New("trade direction must be BUY or SELL")

	// Business-rule violations (400-equivalent, checked before any write)
	ErrInsufficientCash     = errors.New("insufficient cash for trade")
	ErrInsufficientHoldings = errors.New("insufficient holdings for trade")

	// ErrEmptyTickerHistory guards price derivation on a ticker with no
	// bars. Listing callers filter it out; direct price access propagates it.
	ErrEmptyTickerHistory = errors.New("ticker has no price history")
)
