package application

import (
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
)

// Wire-level representations. Entities never cross the HTTP boundary
// directly; the conversion functions in mapping.go are the only bridge.

// StockDTO is the public view of a listed stock.
type StockDTO struct {
	TickerSymbol string         `json:"tickerSymbol"`
	CurrentPrice domain.Decimal `json:"currentPrice"`
}

// TransactionDTO is the public view of an executed trade.
type TransactionDTO struct {
	TransactionID int64          `json:"transactionId"`
	TickerSymbol  string         `json:"tickerSymbol"`
	Price         domain.Decimal `json:"price"`
	Shares        domain.Decimal `json:"shares"`
	Timestamp     time.Time      `json:"timestamp"`
	BrokerID      int64          `json:"brokerId"`
}

// TradeRequest carries an inbound trade. Shares may be fractional.
type TradeRequest struct {
	TickerSymbol string         `json:"tickerSymbol" binding:"required"`
	Price        domain.Decimal `json:"price" binding:"required"`
	Shares       domain.Decimal `json:"shares" binding:"required"`
	BrokerID     int64          `json:"brokerId" binding:"required"`
}

// TradeResult reports the outcome of processing a trade. A missing stock is
// a business outcome, not a transport error, so it travels here with
// Success=false rather than as an HTTP status.
type TradeResult struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message,omitempty"`
	UpdatedStock *StockDTO `json:"updatedStock,omitempty"`
}
