package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
)

// userPortfolioRepository implements domain.UserPortfolioRepository
type userPortfolioRepository struct {
	db *DB
}

// NewUserPortfolioRepository creates a new user portfolio repository
func NewUserPortfolioRepository(db *DB) domain.UserPortfolioRepository {
	return &userPortfolioRepository{db: db}
}

// Create creates a new portfolio
func (r *userPortfolioRepository) Create(ctx context.Context, portfolio *domain.UserPortfolio) error {
	query := `
		INSERT INTO user_portfolios (id, user_id, currency)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, portfolio.ID, portfolio.UserID, portfolio.Currency)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

// GetByID retrieves a portfolio by its ID
func (r *userPortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserPortfolio, error) {
	query := `
		SELECT id, user_id, currency
		FROM user_portfolios
		WHERE id = $1
	`
	return r.scanPortfolio(r.db.QueryRowContext(ctx, query, id))
}

// GetByUserID retrieves the portfolio owned by a user
func (r *userPortfolioRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserPortfolio, error) {
	query := `
		SELECT id, user_id, currency
		FROM user_portfolios
		WHERE user_id = $1
	`
	return r.scanPortfolio(r.db.QueryRowContext(ctx, query, userID))
}

// List retrieves all portfolios
func (r *userPortfolioRepository) List(ctx context.Context) ([]*domain.UserPortfolio, error) {
	query := `
		SELECT id, user_id, currency
		FROM user_portfolios
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := make([]*domain.UserPortfolio, 0)
	for rows.Next() {
		var portfolio domain.UserPortfolio
		if err := rows.Scan(&portfolio.ID, &portfolio.UserID, &portfolio.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, &portfolio)
	}

	return portfolios, rows.Err()
}

// Remove deletes a portfolio
func (r *userPortfolioRepository) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_portfolios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	return nil
}

func (r *userPortfolioRepository) scanPortfolio(row *sql.Row) (*domain.UserPortfolio, error) {
	var portfolio domain.UserPortfolio

	err := row.Scan(&portfolio.ID, &portfolio.UserID, &portfolio.Currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	return &portfolio, nil
}
