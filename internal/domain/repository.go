package domain

import (
	"context"
	"time"
)

// Repositories follow the Domain-Driven Design repository pattern. All
// methods accept context.Context to enable proper timeout handling and
// cancellation propagation.
//
// A missing entity is reported as (nil, nil), never as an error: "not found"
// is an expected outcome for lookups in this domain and the services branch
// on it without unwrapping anything. Empty result sets are empty slices.

// StockRepository provides persistence operations over listed stocks. Stocks
// are provisioned at seed time; there is no create or delete operation here.
type StockRepository interface {
	GetAll(ctx context.Context) ([]Stock, error)
	GetByTickerSymbol(ctx context.Context, tickerSymbol string) (*Stock, error)
	GetByID(ctx context.Context, stockID int64) (*Stock, error)
	// GetByTickerSymbols returns the matching subset; symbols without a
	// listing are silently omitted and ordering is not guaranteed.
	GetByTickerSymbols(ctx context.Context, tickerSymbols []string) ([]Stock, error)
	Update(ctx context.Context, stock *Stock) error
}

// TransactionRepository provides persistence operations over executed trades.
type TransactionRepository interface {
	// Add persists the transaction, assigning its ID and its UTC timestamp
	// as a side effect. The row is durable when Add returns.
	Add(ctx context.Context, transaction *Transaction) error
	GetAllByBrokerID(ctx context.Context, brokerID int64) ([]Transaction, error)
	GetAllByStockID(ctx context.Context, stockID int64) ([]Transaction, error)
	// GetRecent returns up to limit transactions ordered by timestamp
	// descending, ties broken by ID descending.
	GetRecent(ctx context.Context, limit int) ([]Transaction, error)
	// GetByDateRange returns transactions whose timestamp falls within the
	// inclusive [from, to] range.
	GetByDateRange(ctx context.Context, from, to time.Time) ([]Transaction, error)
}

// BrokerRepository provides standard CRUD over brokers.
type BrokerRepository interface {
	GetAll(ctx context.Context) ([]Broker, error)
	GetByID(ctx context.Context, brokerID int64) (*Broker, error)
	Add(ctx context.Context, broker *Broker) error
	Update(ctx context.Context, broker *Broker) error
	// Delete reports whether a row was actually removed; deleting an
	// unknown ID is (false, nil), not an error.
	Delete(ctx context.Context, brokerID int64) (bool, error)
}
