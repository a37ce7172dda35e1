package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stock-exchange/internal/application"
	"github.com/jmanzanog/stock-exchange/internal/domain"
)

const internalErrorMessage = "An error occurred while processing your request."

// StockService defines the interface for stock read operations
type StockService interface {
	GetAllStocks(ctx context.Context) ([]application.StockDTO, error)
	GetStockByTickerSymbol(ctx context.Context, tickerSymbol string) (*application.StockDTO, error)
	GetStocksByTickerSymbols(ctx context.Context, tickerSymbols []string) ([]application.StockDTO, error)
}

// TradeService defines the interface for trade processing
type TradeService interface {
	ProcessTrade(ctx context.Context, req *application.TradeRequest) (*application.TradeResult, error)
}

type Handler struct {
	stockService StockService
	tradeService TradeService
}

func NewHandler(stockService StockService, tradeService TradeService) *Handler {
	return &Handler{
		stockService: stockService,
		tradeService: tradeService,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) GetAllStocks(c *gin.Context) {
	stocks, err := h.stockService.GetAllStocks(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to list stocks", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	c.JSON(http.StatusOK, stocks)
}

func (h *Handler) GetStockByTickerSymbol(c *gin.Context) {
	tickerSymbol := strings.TrimSpace(c.Param("tickerSymbol"))
	if tickerSymbol == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Ticker symbol is required."})
		return
	}

	stock, err := h.stockService.GetStockByTickerSymbol(c.Request.Context(), tickerSymbol)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to get stock", "ticker", tickerSymbol, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}
	if stock == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Stock not found."})
		return
	}

	c.JSON(http.StatusOK, stock)
}

// GetStocksByRange returns the stocks matching the tickerSymbols query
// parameters. Unknown symbols are silently omitted from the result.
func (h *Handler) GetStocksByRange(c *gin.Context) {
	symbols := c.QueryArray("tickerSymbols")

	cleaned := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "At least one ticker symbol is required."})
		return
	}

	stocks, err := h.stockService.GetStocksByTickerSymbols(c.Request.Context(), cleaned)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to get stocks by range", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	c.JSON(http.StatusOK, stocks)
}

func (h *Handler) ProcessTrade(c *gin.Context) {
	var req application.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid trade request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if msg := validateTradeRequest(&req); msg != "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
		return
	}

	result, err := h.tradeService.ProcessTrade(c.Request.Context(), &req)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to process trade", "ticker", req.TickerSymbol, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	// Unknown ticker is reported inside the result, not as an HTTP error.
	c.JSON(http.StatusOK, result)
}

func validateTradeRequest(req *application.TradeRequest) string {
	switch {
	case !domain.ValidTickerSymbol(req.TickerSymbol):
		return "Ticker symbol must be one to five uppercase letters."
	case !req.Price.IsPositive():
		return "Price must be greater than zero."
	case !req.Shares.IsPositive():
		return "Shares must be greater than zero."
	case req.BrokerID <= 0:
		return "Broker id must be greater than zero."
	}
	return ""
}
