package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTickerRepository is a mock implementation of TickerRepository for testing
type MockTickerRepository struct {
	mock.Mock
}

func (m *MockTickerRepository) Create(ctx context.Context, ticker *domain.Ticker) error {
	args := m.Called(ctx, ticker)
	return args.Error(0)
}

func (m *MockTickerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticker), args.Error(1)
}

func (m *MockTickerRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Ticker, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticker), args.Error(1)
}

func (m *MockTickerRepository) List(ctx context.Context) ([]*domain.Ticker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticker), args.Error(1)
}

func (m *MockTickerRepository) Update(ctx context.Context, ticker *domain.Ticker) error {
	args := m.Called(ctx, ticker)
	return args.Error(0)
}

func (m *MockTickerRepository) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTickerRepository) AddDailyBars(ctx context.Context, tickerID uuid.UUID, bars []*domain.DailyBar) error {
	args := m.Called(ctx, tickerID, bars)
	return args.Error(0)
}

// MockDailyBarRepository is a mock implementation of DailyBarRepository for testing
type MockDailyBarRepository struct {
	mock.Mock
}

func (m *MockDailyBarRepository) Create(ctx context.Context, bar *domain.DailyBar) error {
	args := m.Called(ctx, bar)
	return args.Error(0)
}

func (m *MockDailyBarRepository) GetByTickerIDAndDate(ctx context.Context, tickerID uuid.UUID, date time.Time) (*domain.DailyBar, error) {
	args := m.Called(ctx, tickerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyBar), args.Error(1)
}

func (m *MockDailyBarRepository) ListByTickerID(ctx context.Context, tickerID uuid.UUID, limit int) ([]*domain.DailyBar, error) {
	args := m.Called(ctx, tickerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DailyBar), args.Error(1)
}

func (m *MockDailyBarRepository) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func barWithClose(tickerID uuid.UUID, date time.Time, close int64) *domain.DailyBar {
	return &domain.DailyBar{
		ID:       uuid.New(),
		TickerID: tickerID,
		Date:     domain.Day(date),
		Open:     decimal.NewFromInt(close),
		High:     decimal.NewFromInt(close),
		Low:      decimal.NewFromInt(close),
		Close:    decimal.NewFromInt(close),
		Volume:   1000,
	}
}

func TestListTickersWithPrice_VariationAgainstPreviousClose(t *testing.T) {
	ctx := context.Background()
	mockTickerRepo := new(MockTickerRepository)
	mockBarRepo := new(MockDailyBarRepository)

	service := NewService(mockTickerRepo, mockBarRepo)

	ticker := &domain.Ticker{ID: uuid.New(), Symbol: "VWCE", Name: "Vanguard FTSE All-World", AssetType: domain.AssetTypeETF, Currency: "EUR"}
	today := time.Now()

	// Newest first: close 104 today, 100 yesterday
	bars := []*domain.DailyBar{
		barWithClose(ticker.ID, today, 104),
		barWithClose(ticker.ID, today.AddDate(0, 0, -1), 100),
	}

	mockTickerRepo.On("List", ctx).Return([]*domain.Ticker{ticker}, nil)
	mockBarRepo.On("ListByTickerID", ctx, ticker.ID, 2).Return(bars, nil)

	result, err := service.ListTickersWithPrice(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.True(t, result[0].Price.Equal(decimal.NewFromInt(104)))
	assert.True(t, result[0].Variation.Amount.Equal(decimal.NewFromInt(4)))
	assert.True(t, result[0].Variation.Percent.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, domain.VariationUp, result[0].Variation.Direction)

	mockTickerRepo.AssertExpectations(t)
	mockBarRepo.AssertExpectations(t)
}

func TestListTickersWithPrice_EmptyHistoryFilteredOut(t *testing.T) {
	ctx := context.Background()
	mockTickerRepo := new(MockTickerRepository)
	mockBarRepo := new(MockDailyBarRepository)

	service := NewService(mockTickerRepo, mockBarRepo)

	withBars := &domain.Ticker{ID: uuid.New(), Symbol: "VWCE", AssetType: domain.AssetTypeETF}
	empty := &domain.Ticker{ID: uuid.New(), Symbol: "NEWETF", AssetType: domain.AssetTypeETF}

	mockTickerRepo.On("List", ctx).Return([]*domain.Ticker{withBars, empty}, nil)
	mockBarRepo.On("ListByTickerID", ctx, withBars.ID, 2).Return([]*domain.DailyBar{barWithClose(withBars.ID, time.Now(), 50)}, nil)
	mockBarRepo.On("ListByTickerID", ctx, empty.ID, 2).Return([]*domain.DailyBar{}, nil)

	result, err := service.ListTickersWithPrice(ctx)

	// The empty ticker is skipped, not an error
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, withBars.ID, result[0].Ticker.ID)
}

func TestListTickersWithPrice_SingleBarIsFlat(t *testing.T) {
	ctx := context.Background()
	mockTickerRepo := new(MockTickerRepository)
	mockBarRepo := new(MockDailyBarRepository)

	service := NewService(mockTickerRepo, mockBarRepo)

	ticker := &domain.Ticker{ID: uuid.New(), Symbol: "VWCE", AssetType: domain.AssetTypeETF}

	mockTickerRepo.On("List", ctx).Return([]*domain.Ticker{ticker}, nil)
	mockBarRepo.On("ListByTickerID", ctx, ticker.ID, 2).Return([]*domain.DailyBar{barWithClose(ticker.ID, time.Now(), 75)}, nil)

	result, err := service.ListTickersWithPrice(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.True(t, result[0].Variation.Amount.IsZero())
	assert.Equal(t, domain.VariationFlat, result[0].Variation.Direction)
}

func TestGetTickerHistory_WindowEdgeVariation(t *testing.T) {
	ctx := context.Background()
	mockTickerRepo := new(MockTickerRepository)
	mockBarRepo := new(MockDailyBarRepository)

	service := NewService(mockTickerRepo, mockBarRepo)

	ticker := &domain.Ticker{ID: uuid.New(), Symbol: "VWCE", AssetType: domain.AssetTypeETF}
	today := time.Now()

	// Newest first: 104 (newest), 100 (oldest in window)
	bars := []*domain.DailyBar{
		barWithClose(ticker.ID, today, 104),
		barWithClose(ticker.ID, today.AddDate(0, 0, -1), 100),
	}

	mockTickerRepo.On("GetByID", ctx, ticker.ID).Return(ticker, nil)
	mockBarRepo.On("ListByTickerID", ctx, ticker.ID, 2).Return(bars, nil)

	result, err := service.GetTickerHistory(ctx, ticker.ID, 2)

	assert.NoError(t, err)
	assert.Len(t, result.History, 2)
	assert.True(t, result.Variation.Amount.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "4", result.Variation.Percent.String())
	assert.Equal(t, domain.VariationUp, result.Variation.Direction)
}

func TestGetTickerHistory_LimitOutOfRange(t *testing.T) {
	ctx := context.Background()
	mockTickerRepo := new(MockTickerRepository)
	mockBarRepo := new(MockDailyBarRepository)

	service := NewService(mockTickerRepo, mockBarRepo)

	for _, limit := range []int{0, -1, 366} {
		_, err := service.GetTickerHistory(ctx, uuid.New(), limit)
		assert.ErrorIs(t, err, domain.ErrInvalidHistoryLimit)
	}

	// Validation happens before any repository access
	mockTickerRepo.AssertNotCalled(t, "GetByID")
	mockBarRepo.AssertNotCalled(t, "ListByTickerID")
}

func TestGetTickerHistory_TickerNotFound(t *testing.T) {
	ctx := context.Background()
	mockTickerRepo := new(MockTickerRepository)
	mockBarRepo := new(MockDailyBarRepository)

	service := NewService(mockTickerRepo, mockBarRepo)

	tickerID := uuid.New()
	mockTickerRepo.On("GetByID", ctx, tickerID).Return(nil, domain.ErrTickerNotFound)

	_, err := service.GetTickerHistory(ctx, tickerID, 30)

	assert.ErrorIs(t, err, domain.ErrTickerNotFound)
	mockBarRepo.AssertNotCalled(t, "ListByTickerID")
}

func TestGetTickerHistory_EmptyWindowIsFlat(t *testing.T) {
	ctx := context.Background()
	mockTickerRepo := new(MockTickerRepository)
	mockBarRepo := new(MockDailyBarRepository)

	service := NewService(mockTickerRepo, mockBarRepo)

	ticker := &domain.Ticker{ID: uuid.New(), Symbol: "VWCE", AssetType: domain.AssetTypeETF}

	mockTickerRepo.On("GetByID", ctx, ticker.ID).Return(ticker, nil)
	mockBarRepo.On("ListByTickerID", ctx, ticker.ID, 30).Return([]*domain.DailyBar{}, nil)

	result, err := service.GetTickerHistory(ctx, ticker.ID, 30)

	assert.NoError(t, err)
	assert.Empty(t, result.History)
	assert.Equal(t, domain.VariationFlat, result.Variation.Direction)
}

func TestGetTickerPrice_EmptyHistory(t *testing.T) {
	ctx := context.Background()
	mockTickerRepo := new(MockTickerRepository)
	mockBarRepo := new(MockDailyBarRepository)

	service := NewService(mockTickerRepo, mockBarRepo)

	ticker := &domain.Ticker{ID: uuid.New(), Symbol: "VWCE", AssetType: domain.AssetTypeETF}

	mockTickerRepo.On("GetByID", ctx, ticker.ID).Return(ticker, nil)
	mockBarRepo.On("ListByTickerID", ctx, ticker.ID, 1).Return([]*domain.DailyBar{}, nil)

	_, err := service.GetTickerPrice(ctx, ticker.ID)

	assert.ErrorIs(t, err, domain.ErrEmptyTickerHistory)
}
