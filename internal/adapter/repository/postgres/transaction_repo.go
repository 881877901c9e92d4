package postgres

import (
	"context"
	"fmt"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transactionRepository implements domain.TransactionRepository and
// domain.TradeWriter
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// NewTradeWriter creates a TradeWriter backed by the same tables
func NewTradeWriter(db *DB) domain.TradeWriter {
	return &transactionRepository{db: db}
}

const insertTransactionQuery = `
	INSERT INTO transactions (id, portfolio_id, ticker_id, direction, amount, volume, price, executed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Create appends a new transaction to the ledger
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx, insertTransactionQuery,
		tx.ID,
		tx.PortfolioID,
		tx.TickerID,
		string(tx.Direction),
		tx.Amount.String(),
		tx.Volume.String(),
		tx.Price.String(),
		tx.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// CommitTrade persists the updated snapshot and the new ledger entry in a
// single database transaction, so a trade is never half-visible.
func (r *transactionRepository) CommitTrade(ctx context.Context, value *domain.PortfolioValue, tx *domain.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	updateQuery := `
		UPDATE portfolio_values
		SET cash = $2, investments = $3
		WHERE id = $1
	`
	result, err := dbTx.ExecContext(ctx, updateQuery, value.ID, value.Cash.String(), value.Investments.String())
	if err != nil {
		return fmt.Errorf("failed to update portfolio value: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrPortfolioValueNotFound
	}

	_, err = dbTx.ExecContext(ctx, insertTransactionQuery,
		tx.ID,
		tx.PortfolioID,
		tx.TickerID,
		string(tx.Direction),
		tx.Amount.String(),
		tx.Volume.String(),
		tx.Price.String(),
		tx.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}

	return nil
}

// ListByPortfolioID retrieves all transactions for a portfolio
func (r *transactionRepository) ListByPortfolioID(ctx context.Context, portfolioID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, portfolio_id, ticker_id, direction, amount, volume, price, executed_at
		FROM transactions
		WHERE portfolio_id = $1
		ORDER BY executed_at
	`
	return r.queryTransactions(ctx, query, portfolioID)
}

// ListByPortfolioIDAndTickerID retrieves all transactions for a
// (portfolio, ticker) pair
func (r *transactionRepository) ListByPortfolioIDAndTickerID(ctx context.Context, portfolioID, tickerID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, portfolio_id, ticker_id, direction, amount, volume, price, executed_at
		FROM transactions
		WHERE portfolio_id = $1 AND ticker_id = $2
		ORDER BY executed_at
	`
	return r.queryTransactions(ctx, query, portfolioID, tickerID)
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var direction, amount, volume, price string

		err := rows.Scan(&tx.ID, &tx.PortfolioID, &tx.TickerID, &direction, &amount, &volume, &price, &tx.ExecutedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Direction = domain.TransactionDirection(direction)
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		if tx.Volume, err = decimal.NewFromString(volume); err != nil {
			return nil, fmt.Errorf("failed to parse volume: %w", err)
		}
		if tx.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}

		txs = append(txs, &tx)
	}

	return txs, rows.Err()
}
