package http

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler, stream *StreamHandler) {
	router.Use(RequestID())

	api := router.Group("/api")
	{
		api.GET("/stocks", handler.GetAllStocks)
		api.GET("/stocks/range", handler.GetStocksByRange)
		api.GET("/stocks/:tickerSymbol", handler.GetStockByTickerSymbol)

		api.POST("/trades", handler.ProcessTrade)
		api.GET("/trades/stream", stream.StreamTrades)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
