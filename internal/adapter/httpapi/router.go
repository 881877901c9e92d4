package httpapi

import "github.com/gin-gonic/gin"

// NewRouter wires the handler into the REST surface
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		api.GET("/tickers", h.ListTickers)
		api.GET("/tickers/:tickerId/history", h.GetTickerHistory)

		api.POST("/users/:userId/portfolio", h.CreatePortfolio)
		api.GET("/users/:userId/holdings", h.ListHoldings)
		api.GET("/users/:userId/positions", h.GetPortfolioPositions)
		api.GET("/users/:userId/tickers/:tickerId/value", h.GetPossessedValue)

		api.POST("/transactions", h.ExecuteTransaction)

		api.POST("/admin/tickers/refresh", h.RefreshTickers)
	}

	return router
}
