package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmanzanog/stock-exchange/internal/domain"
	"github.com/jmanzanog/stock-exchange/internal/notification"
)

// TradeNotifier publishes a trade event to all connected subscribers.
// Broadcasting is fire-and-forget relative to the trade result.
type TradeNotifier interface {
	Publish(event notification.TradeEvent)
}

// TradeService orchestrates trade processing: locate the stock, move its
// price, record the transaction and notify subscribers.
type TradeService struct {
	stocks       domain.StockRepository
	transactions domain.TransactionRepository
	notifier     TradeNotifier
}

func NewTradeService(stocks domain.StockRepository, transactions domain.TransactionRepository, notifier TradeNotifier) *TradeService {
	return &TradeService{
		stocks:       stocks,
		transactions: transactions,
		notifier:     notifier,
	}
}

// ProcessTrade executes a single trade. An unknown ticker yields a failed
// result with no side effects. The price update and the transaction insert
// are two independent commits; they are intentionally not wrapped in one
// storage transaction, preserving last-writer-wins semantics under
// concurrent trades on the same stock.
func (s *TradeService) ProcessTrade(ctx context.Context, req *TradeRequest) (*TradeResult, error) {
	stock, err := s.stocks.GetByTickerSymbol(ctx, req.TickerSymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock %s: %w", req.TickerSymbol, err)
	}
	if stock == nil {
		return &TradeResult{Success: false, Message: "Stock not found."}, nil
	}

	stock.CurrentPrice = req.Price
	if err := s.stocks.Update(ctx, stock); err != nil {
		return nil, fmt.Errorf("failed to update stock price for %s: %w", req.TickerSymbol, err)
	}

	transaction := TradeToTransaction(req, stock.ID)
	if err := s.transactions.Add(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to record transaction for %s: %w", req.TickerSymbol, err)
	}

	s.notifier.Publish(notification.TradeEvent{
		TickerSymbol: req.TickerSymbol,
		Price:        req.Price,
		Shares:       req.Shares,
		BrokerID:     req.BrokerID,
		Timestamp:    transaction.Timestamp,
	})

	return &TradeResult{Success: true, UpdatedStock: StockToDTO(stock)}, nil
}

// GetRecentTransactions returns the limit most recent transactions across
// the whole exchange, newest first.
func (s *TradeService) GetRecentTransactions(ctx context.Context, limit int) ([]TransactionDTO, error) {
	transactions, err := s.transactions.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	return s.toDTOs(ctx, transactions)
}

// GetRecentTransactionsByBrokerID returns the broker's most recent
// transactions, newest first, up to limit.
func (s *TradeService) GetRecentTransactionsByBrokerID(ctx context.Context, brokerID int64, limit int) ([]TransactionDTO, error) {
	transactions, err := s.transactions.GetAllByBrokerID(ctx, brokerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for broker %d: %w", brokerID, err)
	}
	return s.toDTOs(ctx, newestFirst(transactions, limit))
}

// GetRecentTransactionsByStockID returns the most recent transactions for
// the stock listed under tickerSymbol, newest first, up to limit. An unknown
// ticker yields an empty slice.
func (s *TradeService) GetRecentTransactionsByStockID(ctx context.Context, tickerSymbol string, limit int) ([]TransactionDTO, error) {
	stock, err := s.stocks.GetByTickerSymbol(ctx, tickerSymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock %s: %w", tickerSymbol, err)
	}
	if stock == nil {
		return []TransactionDTO{}, nil
	}

	transactions, err := s.transactions.GetAllByStockID(ctx, stock.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for %s: %w", tickerSymbol, err)
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range newestFirst(transactions, limit) {
		dtos = append(dtos, *TransactionToDTO(&t, stock.TickerSymbol))
	}
	return dtos, nil
}

// GetTransactionsByDateRange returns transactions within the inclusive
// [from, to] range.
func (s *TradeService) GetTransactionsByDateRange(ctx context.Context, from, to time.Time) ([]TransactionDTO, error) {
	transactions, err := s.transactions.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions by date range: %w", err)
	}
	return s.toDTOs(ctx, transactions)
}

// newestFirst sorts by timestamp descending with ID as the deterministic
// tie-break and truncates to limit.
func newestFirst(transactions []domain.Transaction, limit int) []domain.Transaction {
	sorted := make([]domain.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if limit >= 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// toDTOs maps transactions to DTOs, resolving each distinct stock once.
func (s *TradeService) toDTOs(ctx context.Context, transactions []domain.Transaction) ([]TransactionDTO, error) {
	tickers := make(map[int64]string)
	dtos := make([]TransactionDTO, 0, len(transactions))

	for _, t := range transactions {
		ticker, ok := tickers[t.StockID]
		if !ok {
			stock, err := s.stocks.GetByID(ctx, t.StockID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve stock %d: %w", t.StockID, err)
			}
			if stock != nil {
				ticker = stock.TickerSymbol
			}
			tickers[t.StockID] = ticker
		}
		dtos = append(dtos, *TransactionToDTO(&t, ticker))
	}
	return dtos, nil
}
