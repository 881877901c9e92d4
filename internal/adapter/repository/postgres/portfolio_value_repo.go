package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// portfolioValueRepository implements domain.PortfolioValueRepository
type portfolioValueRepository struct {
	db *DB
}

// NewPortfolioValueRepository creates a new portfolio value repository
func NewPortfolioValueRepository(db *DB) domain.PortfolioValueRepository {
	return &portfolioValueRepository{db: db}
}

// Create creates a new snapshot
func (r *portfolioValueRepository) Create(ctx context.Context, value *domain.PortfolioValue) error {
	query := `
		INSERT INTO portfolio_values (id, portfolio_id, date, cash, investments)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		value.ID,
		value.PortfolioID,
		value.Date,
		value.Cash.String(),
		value.Investments.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio value: %w", err)
	}

	return nil
}

// Update mutates an existing snapshot in place
func (r *portfolioValueRepository) Update(ctx context.Context, value *domain.PortfolioValue) error {
	query := `
		UPDATE portfolio_values
		SET cash = $2, investments = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, value.ID, value.Cash.String(), value.Investments.String())
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

	return nil
}

// GetByPortfolioIDAndDate retrieves the snapshot for a specific day
func (r *portfolioValueRepository) GetByPortfolioIDAndDate(ctx context.Context, portfolioID uuid.UUID, date time.Time) (*domain.PortfolioValue, error) {
	query := `
		SELECT id, portfolio_id, date, cash, investments
		FROM portfolio_values
		WHERE portfolio_id = $1 AND date = $2
	`
	return r.scanValue(r.db.QueryRowContext(ctx, query, portfolioID, date))
}

// GetLatestByPortfolioID retrieves the most recent snapshot
func (r *portfolioValueRepository) GetLatestByPortfolioID(ctx context.Context, portfolioID uuid.UUID) (*domain.PortfolioValue, error) {
	query := `
		SELECT id, portfolio_id, date, cash, investments
		FROM portfolio_values
		WHERE portfolio_id = $1
		ORDER BY date DESC
		LIMIT 1
	`
	return r.scanValue(r.db.QueryRowContext(ctx, query, portfolioID))
}

// ListByPortfolioID retrieves up to limit snapshots, newest first
func (r *portfolioValueRepository) ListByPortfolioID(ctx context.Context, portfolioID uuid.UUID, limit int) ([]*domain.PortfolioValue, error) {
	query := `
		SELECT id, portfolio_id, date, cash, investments
		FROM portfolio_values
		WHERE portfolio_id = $1
		ORDER BY date DESC
	`

	args := []any{portfolioID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio values: %w", err)
	}
	defer rows.Close()

	values := make([]*domain.PortfolioValue, 0)
	for rows.Next() {
		var value domain.PortfolioValue
		var cash, investments string
		if err := rows.Scan(&value.ID, &value.PortfolioID, &value.Date, &cash, &investments); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio value: %w", err)
		}
		if value.Cash, err = decimal.NewFromString(cash); err != nil {
			return nil, fmt.Errorf("failed to parse cash: %w", err)
		}
		if value.Investments, err = decimal.NewFromString(investments); err != nil {
			return nil, fmt.Errorf("failed to parse investments: %w", err)
		}
		values = append(values, &value)
	}

	return values, rows.Err()
}

// CountByPortfolioID returns the total number of snapshots for a portfolio
func (r *portfolioValueRepository) CountByPortfolioID(ctx context.Context, portfolioID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM portfolio_values WHERE portfolio_id = $1`, portfolioID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count portfolio values: %w", err)
	}
	return count, nil
}

func (r *portfolioValueRepository) scanValue(row *sql.Row) (*domain.PortfolioValue, error) {
	var value domain.PortfolioValue
	var cash, investments string

	err := row.Scan(&value.ID, &value.PortfolioID, &value.Date, &cash, &investments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPortfolioValueNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio value: %w", err)
	}

	if value.Cash, err = decimal.NewFromString(cash); err != nil {
		return nil, fmt.Errorf("failed to parse cash: %w", err)
	}
	if value.Investments, err = decimal.NewFromString(investments); err != nil {
		return nil, fmt.Errorf("failed to parse investments: %w", err)
	}

	return &value, nil
}
