package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/finquest/brokerage-backend/internal/usecase/holdings"
	"github.com/finquest/brokerage-backend/internal/usecase/ingestion"
	"github.com/finquest/brokerage-backend/internal/usecase/pricing"
	"github.com/finquest/brokerage-backend/internal/usecase/signup"
	"github.com/finquest/brokerage-backend/internal/usecase/trading"
	"github.com/finquest/brokerage-backend/internal/usecase/valuation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handler translates HTTP requests into use-case calls. It carries no
// business logic: parsing, delegation and error-to-status mapping only.
type Handler struct {
	Pricing   *pricing.Service
	Holdings  *holdings.Service
	Trading   *trading.Engine
	Valuation *valuation.Service
	Signup    *signup.Service
	Ingestion *ingestion.Service
}

// NewHandler creates a new Handler instance
func NewHandler(
	pricingService *pricing.Service,
	holdingsService *holdings.Service,
	tradingEngine *trading.Engine,
	valuationService *valuation.Service,
	signupService *signup.Service,
	ingestionService *ingestion.Service,
) *Handler {
	return &Handler{
		Pricing:   pricingService,
		Holdings:  holdingsService,
		Trading:   tradingEngine,
		Valuation: valuationService,
		Signup:    signupService,
		Ingestion: ingestionService,
	}
}

// statusForError maps domain errors to HTTP statuses: missing prerequisite
// state is 404, validation and business-rule rejections are 400, anything
// else is 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrPortfolioNotFound),
		errors.Is(err, domain.ErrTickerNotFound),
		errors.Is(err, domain.ErrDailyBarNotFound),
		errors.Is(err, domain.ErrPortfolioValueNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidHistoryLimit),
		errors.Is(err, domain.ErrInvalidTradeAmount),
		errors.Is(err, domain.ErrInvalidTradeDirection),
		errors.Is(err, domain.ErrInsufficientCash),
		errors.Is(err, domain.ErrInsufficientHoldings):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// ListTickers handles GET /api/tickers
func (h *Handler) ListTickers(c *gin.Context) {
	result, err := h.Pricing.ListTickersWithPrice(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(result))
	for _, row := range result {
		out = append(out, gin.H{
			"id":                 row.Ticker.ID,
			"symbol":             row.Ticker.Symbol,
			"name":               row.Ticker.Name,
			"assetType":          row.Ticker.AssetType,
			"currency":           row.Ticker.Currency,
			"price":              row.Price,
			"variation":          row.Variation.Amount,
			"variationPercent":   row.Variation.Percent,
			"variationDirection": row.Variation.Direction,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tickers": out})
}

// GetTickerHistory handles GET /api/tickers/:tickerId/history?limit=
func (h *Handler) GetTickerHistory(c *gin.Context) {
	tickerID, ok := parseUUIDParam(c, "tickerId")
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if err != nil {
		respondError(c, domain.ErrInvalidHistoryLimit)
		return
	}

	result, err := h.Pricing.GetTickerHistory(c.Request.Context(), tickerID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history":            result.History,
		"variation":          result.Variation.Amount,
		"variationPercent":   result.Variation.Percent,
		"variationDirection": result.Variation.Direction,
	})
}

// GetPossessedValue handles GET /api/users/:userId/tickers/:tickerId/value
func (h *Handler) GetPossessedValue(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}
	tickerID, ok := parseUUIDParam(c, "tickerId")
	if !ok {
		return
	}

	position, err := h.Holdings.GetPossessedValue(c.Request.Context(), userID, tickerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shares": position.Shares,
		"amount": position.Amount,
	})
}

// ListHoldings handles GET /api/users/:userId/holdings
func (h *Handler) ListHoldings(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	positions, err := h.Holdings.ListHoldings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(positions))
	for _, p := range positions {
		out = append(out, gin.H{
			"tickerId": p.TickerID,
			"shares":   p.Shares,
			"amount":   p.Amount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"holdings": out})
}

// GetPortfolioPositions handles GET /api/users/:userId/positions?limit=
func (h *Handler) GetPortfolioPositions(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	result, err := h.Valuation.GetPortfolioPositions(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	positions := make([]gin.H, 0, len(result.Positions))
	for _, v := range result.Positions {
		positions = append(positions, gin.H{
			"date":        v.Date,
			"cash":        v.Cash,
			"investments": v.Investments,
			"total":       v.TotalValue(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"positions":          positions,
		"total":              result.Total,
		"variation":          result.Variation.Amount,
		"variationPercent":   result.Variation.Percent,
		"variationDirection": result.Variation.Direction,
	})
}

type executeTransactionRequest struct {
	PortfolioID string `json:"portfolioId" binding:"required"`
	TickerID    string `json:"tickerId" binding:"required"`
	Direction   string `json:"direction" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

// ExecuteTransaction handles POST /api/transactions
func (h *Handler) ExecuteTransaction(c *gin.Context) {
	var req executeTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	portfolioID, err := uuid.Parse(req.PortfolioID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolioId"})
		return
	}
	tickerID, err := uuid.Parse(req.TickerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tickerId"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	result, err := h.Trading.ExecuteTransaction(c.Request.Context(), trading.Command{
		PortfolioID: portfolioID,
		TickerID:    tickerID,
		Direction:   domain.TransactionDirection(req.Direction),
		Amount:      amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cash":           result.Cash,
		"investments":    result.Investments,
		"tickerHoldings": result.TickerHoldings,
	})
}

// CreatePortfolio handles POST /api/users/:userId/portfolio
func (h *Handler) CreatePortfolio(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	portfolio, err := h.Signup.CreatePortfolio(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       portfolio.ID,
		"userId":   portfolio.UserID,
		"currency": portfolio.Currency,
	})
}

// RefreshTickers handles POST /api/admin/tickers/refresh
func (h *Handler) RefreshTickers(c *gin.Context) {
	if err := h.Ingestion.UpdateTickersHistory(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
