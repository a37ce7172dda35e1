package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stock-exchange/internal/application"
	"github.com/jmanzanog/stock-exchange/internal/domain"
	"github.com/jmanzanog/stock-exchange/internal/notification"
)

// --- Mock Services ---

type MockStockService struct {
	getAllStocksFunc             func(ctx context.Context) ([]application.StockDTO, error)
	getStockByTickerSymbolFunc   func(ctx context.Context, tickerSymbol string) (*application.StockDTO, error)
	getStocksByTickerSymbolsFunc func(ctx context.Context, tickerSymbols []string) ([]application.StockDTO, error)
}

func (m *MockStockService) GetAllStocks(ctx context.Context) ([]application.StockDTO, error) {
	if m.getAllStocksFunc != nil {
		return m.getAllStocksFunc(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *MockStockService) GetStockByTickerSymbol(ctx context.Context, tickerSymbol string) (*application.StockDTO, error) {
	if m.getStockByTickerSymbolFunc != nil {
		return m.getStockByTickerSymbolFunc(ctx, tickerSymbol)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *MockStockService) GetStocksByTickerSymbols(ctx context.Context, tickerSymbols []string) ([]application.StockDTO, error) {
	if m.getStocksByTickerSymbolsFunc != nil {
		return m.getStocksByTickerSymbolsFunc(ctx, tickerSymbols)
	}
	return nil, fmt.Errorf("not implemented")
}

type MockTradeService struct {
	processTradeFunc func(ctx context.Context, req *application.TradeRequest) (*application.TradeResult, error)
	called           bool
}

func (m *MockTradeService) ProcessTrade(ctx context.Context, req *application.TradeRequest) (*application.TradeResult, error) {
	m.called = true
	if m.processTradeFunc != nil {
		return m.processTradeFunc(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}

// --- Test Setup ---

func setupRouter(stockService StockService, tradeService TradeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(stockService, tradeService)
	stream := NewStreamHandler(notification.NewBroker(1))
	SetupRoutes(router, handler, stream)
	return router
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// --- GetAllStocks Tests ---

func TestHandler_GetAllStocks_Success(t *testing.T) {
	mockService := &MockStockService{
		getAllStocksFunc: func(ctx context.Context) ([]application.StockDTO, error) {
			return []application.StockDTO{
				{TickerSymbol: "AAPL", CurrentPrice: domain.MustDecimal("150.00")},
				{TickerSymbol: "MSFT", CurrentPrice: domain.MustDecimal("250.00")},
			}, nil
		},
	}
	router := setupRouter(mockService, &MockTradeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var stocks []application.StockDTO
	if err := json.Unmarshal(w.Body.Bytes(), &stocks); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if len(stocks) != 2 {
		t.Errorf("expected 2 stocks, got %d", len(stocks))
	}
}

func TestHandler_GetAllStocks_ServiceError(t *testing.T) {
	mockService := &MockStockService{
		getAllStocksFunc: func(ctx context.Context) ([]application.StockDTO, error) {
			return nil, fmt.Errorf("database connection failed")
		},
	}
	router := setupRouter(mockService, &MockTradeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	// Internal details must not leak to the client
	if errResp.Error != internalErrorMessage {
		t.Errorf("unexpected error message: %s", errResp.Error)
	}
}

// --- GetStockByTickerSymbol Tests ---

func TestHandler_GetStockByTickerSymbol_Success(t *testing.T) {
	mockService := &MockStockService{
		getStockByTickerSymbolFunc: func(ctx context.Context, tickerSymbol string) (*application.StockDTO, error) {
			return &application.StockDTO{TickerSymbol: tickerSymbol, CurrentPrice: domain.MustDecimal("150.00")}, nil
		},
	}
	router := setupRouter(mockService, &MockTradeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/AAPL", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var stock application.StockDTO
	if err := json.Unmarshal(w.Body.Bytes(), &stock); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if stock.TickerSymbol != "AAPL" {
		t.Errorf("expected ticker AAPL, got %s", stock.TickerSymbol)
	}
}

func TestHandler_GetStockByTickerSymbol_NotFound(t *testing.T) {
	mockService := &MockStockService{
		getStockByTickerSymbolFunc: func(ctx context.Context, tickerSymbol string) (*application.StockDTO, error) {
			return nil, nil
		},
	}
	router := setupRouter(mockService, &MockTradeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/ZZZZ", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if errResp.Error != "Stock not found." {
		t.Errorf("unexpected error message: %s", errResp.Error)
	}
}

func TestHandler_GetStockByTickerSymbol_BlankSymbol(t *testing.T) {
	router := setupRouter(&MockStockService{}, &MockTradeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/%20", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandler_GetStockByTickerSymbol_ServiceError(t *testing.T) {
	mockService := &MockStockService{
		getStockByTickerSymbolFunc: func(ctx context.Context, tickerSymbol string) (*application.StockDTO, error) {
			return nil, fmt.Errorf("database error")
		},
	}
	router := setupRouter(mockService, &MockTradeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/AAPL", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

// --- GetStocksByRange Tests ---

func TestHandler_GetStocksByRange_Success(t *testing.T) {
	mockService := &MockStockService{
		getStocksByTickerSymbolsFunc: func(ctx context.Context, tickerSymbols []string) ([]application.StockDTO, error) {
			if len(tickerSymbols) != 2 {
				t.Errorf("expected 2 symbols, got %d", len(tickerSymbols))
			}
			return []application.StockDTO{
				{TickerSymbol: "AAPL", CurrentPrice: domain.MustDecimal("150.00")},
			}, nil
		},
	}
	router := setupRouter(mockService, &MockTradeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/range?tickerSymbols=AAPL&tickerSymbols=ZZZZ", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// Unknown symbols are omitted, not errors
	var stocks []application.StockDTO
	if err := json.Unmarshal(w.Body.Bytes(), &stocks); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(stocks) != 1 {
		t.Errorf("expected 1 stock, got %d", len(stocks))
	}
}

func TestHandler_GetStocksByRange_NoSymbols(t *testing.T) {
	router := setupRouter(&MockStockService{}, &MockTradeService{})

	testCases := []struct {
		name string
		url  string
	}{
		{name: "no query", url: "/api/stocks/range"},
		{name: "blank values", url: "/api/stocks/range?tickerSymbols=&tickerSymbols=%20"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d. Body: %s", http.StatusBadRequest, w.Code, w.Body.String())
			}
		})
	}
}

// --- ProcessTrade Tests ---

func tradeBody(ticker, price, shares string, brokerID int64) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"tickerSymbol": ticker,
		"price":        json.RawMessage(price),
		"shares":       json.RawMessage(shares),
		"brokerId":     brokerID,
	})
	return body
}

func TestHandler_ProcessTrade_Success(t *testing.T) {
	mockService := &MockTradeService{
		processTradeFunc: func(ctx context.Context, req *application.TradeRequest) (*application.TradeResult, error) {
			return &application.TradeResult{
				Success: true,
				UpdatedStock: &application.StockDTO{
					TickerSymbol: req.TickerSymbol,
					CurrentPrice: req.Price,
				},
			}, nil
		},
	}
	router := setupRouter(&MockStockService{}, mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/trades", bytes.NewReader(tradeBody("AAPL", "160.00", "10", 1)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d. Body: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var result application.TradeResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if !result.Success {
		t.Error("expected successful result")
	}
	if result.UpdatedStock == nil || result.UpdatedStock.TickerSymbol != "AAPL" {
		t.Errorf("unexpected updated stock: %+v", result.UpdatedStock)
	}
}

func TestHandler_ProcessTrade_UnknownTickerIsStillOK(t *testing.T) {
	mockService := &MockTradeService{
		processTradeFunc: func(ctx context.Context, req *application.TradeRequest) (*application.TradeResult, error) {
			return &application.TradeResult{Success: false, Message: "Stock not found."}, nil
		},
	}
	router := setupRouter(&MockStockService{}, mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/trades", bytes.NewReader(tradeBody("ZZZZ", "160.00", "10", 1)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var result application.TradeResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if result.Success {
		t.Error("expected unsuccessful result")
	}
	if result.Message != "Stock not found." {
		t.Errorf("unexpected message: %s", result.Message)
	}
}

func TestHandler_ProcessTrade_InvalidJSON(t *testing.T) {
	mockService := &MockTradeService{}
	router := setupRouter(&MockStockService{}, mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/trades", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if mockService.called {
		t.Error("service must not be called for an unparseable body")
	}
}

func TestHandler_ProcessTrade_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		body    []byte
		message string
	}{
		{
			name:    "negative shares",
			body:    tradeBody("AAPL", "160.00", "-5", 1),
			message: "Shares must be greater than zero.",
		},
		{
			name:    "negative price",
			body:    tradeBody("AAPL", "-1.00", "10", 1),
			message: "Price must be greater than zero.",
		},
		{
			name:    "lowercase ticker",
			body:    tradeBody("aapl", "160.00", "10", 1),
			message: "Ticker symbol must be one to five uppercase letters.",
		},
		{
			name:    "ticker too long",
			body:    tradeBody("TOOLONG", "160.00", "10", 1),
			message: "Ticker symbol must be one to five uppercase letters.",
		},
		{
			name:    "negative broker id",
			body:    tradeBody("AAPL", "160.00", "10", -1),
			message: "Broker id must be greater than zero.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockTradeService{}
			router := setupRouter(&MockStockService{}, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/trades", bytes.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d. Body: %s", http.StatusBadRequest, w.Code, w.Body.String())
			}
			if mockService.called {
				t.Error("service must not be called for an invalid request")
			}

			var errResp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("failed to unmarshal error response: %v", err)
			}
			if errResp.Error != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, errResp.Error)
			}
		})
	}
}

func TestHandler_ProcessTrade_MissingFields(t *testing.T) {
	mockService := &MockTradeService{}
	router := setupRouter(&MockStockService{}, mockService)

	body, _ := json.Marshal(map[string]interface{}{
		"tickerSymbol": "AAPL",
		"price":        160.00,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/trades", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if mockService.called {
		t.Error("service must not be called for an incomplete request")
	}
}

func TestHandler_ProcessTrade_ServiceError(t *testing.T) {
	mockService := &MockTradeService{
		processTradeFunc: func(ctx context.Context, req *application.TradeRequest) (*application.TradeResult, error) {
			return nil, fmt.Errorf("transaction insert failed")
		},
	}
	router := setupRouter(&MockStockService{}, mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/trades", bytes.NewReader(tradeBody("AAPL", "160.00", "10", 1)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	if errResp.Error != internalErrorMessage {
		t.Errorf("unexpected error message: %s", errResp.Error)
	}
}

// --- Health and middleware ---

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(&MockStockService{}, &MockTradeService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router := setupRouter(&MockStockService{
		getAllStocksFunc: func(ctx context.Context) ([]application.StockDTO, error) {
			return []application.StockDTO{}, nil
		},
	}, &MockTradeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected a generated request id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stocks", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "fixed-id" {
		t.Errorf("expected incoming request id to win, got %s", got)
	}
}
